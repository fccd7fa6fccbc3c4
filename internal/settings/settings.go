package settings

import (
	"fmt"
	"strings"

	"zenbox/internal/core/model"
	"zenbox/internal/i18n"
)

// Bounds for editable settings.
const (
	MinPhaseDuration = 1
	MaxPhaseDuration = 60
	MinTotalCycles   = 1
	MaxTotalCycles   = 50
	MinCountdown     = 0
	MaxCountdown     = 10
)

// Settings defines editable user preferences.
type Settings struct {
	PhaseDuration int
	TotalCycles   int

	Locale           string
	Sound            bool
	CountdownSeconds int
}

// DefaultSettings returns default settings for ZenBox.
func DefaultSettings() Settings {
	return Settings{
		PhaseDuration:    model.DefaultPhaseDuration,
		TotalCycles:      model.DefaultTotalCycles,
		Locale:           i18n.DefaultLocale,
		Sound:            true,
		CountdownSeconds: 3,
	}
}

// BreathConfig converts settings to the timer configuration.
func (settings Settings) BreathConfig() model.BreathConfig {
	return model.BreathConfig{
		PhaseDuration: settings.PhaseDuration,
		TotalCycles:   settings.TotalCycles,
	}
}

// Clamp forces every numeric field into its allowed range.
// Values below the minimum become the default, values above the maximum become the maximum.
func (settings Settings) Clamp() Settings {
	defaults := DefaultSettings()
	if settings.PhaseDuration < MinPhaseDuration {
		settings.PhaseDuration = defaults.PhaseDuration
	}
	if settings.PhaseDuration > MaxPhaseDuration {
		settings.PhaseDuration = MaxPhaseDuration
	}
	if settings.TotalCycles < MinTotalCycles {
		settings.TotalCycles = defaults.TotalCycles
	}
	if settings.TotalCycles > MaxTotalCycles {
		settings.TotalCycles = MaxTotalCycles
	}
	if settings.CountdownSeconds < MinCountdown {
		settings.CountdownSeconds = MinCountdown
	}
	if settings.CountdownSeconds > MaxCountdown {
		settings.CountdownSeconds = MaxCountdown
	}
	if strings.TrimSpace(settings.Locale) == "" {
		settings.Locale = defaults.Locale
	}
	return settings
}

// ValidationError represents a single invalid field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate reports every field outside its allowed range.
func (settings Settings) Validate() ValidationErrors {
	var errs ValidationErrors
	if settings.PhaseDuration < MinPhaseDuration || settings.PhaseDuration > MaxPhaseDuration {
		errs = append(errs, ValidationError{
			Field:   "phase_duration",
			Value:   settings.PhaseDuration,
			Message: fmt.Sprintf("must be between %d and %d seconds", MinPhaseDuration, MaxPhaseDuration),
		})
	}
	if settings.TotalCycles < MinTotalCycles || settings.TotalCycles > MaxTotalCycles {
		errs = append(errs, ValidationError{
			Field:   "total_cycles",
			Value:   settings.TotalCycles,
			Message: fmt.Sprintf("must be between %d and %d", MinTotalCycles, MaxTotalCycles),
		})
	}
	if settings.CountdownSeconds < MinCountdown || settings.CountdownSeconds > MaxCountdown {
		errs = append(errs, ValidationError{
			Field:   "countdown_seconds",
			Value:   settings.CountdownSeconds,
			Message: fmt.Sprintf("must be between %d and %d seconds", MinCountdown, MaxCountdown),
		})
	}
	return errs
}

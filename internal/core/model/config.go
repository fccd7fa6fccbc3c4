package model

// BreathConfig contains runtime settings for the breathing timer state machine.
type BreathConfig struct {
	// PhaseDuration is the length of every phase, in seconds.
	PhaseDuration int
	// TotalCycles is the number of inhale-hold-exhale-hold cycles in a session.
	TotalCycles int
}

// Default values used when no settings are stored.
const (
	DefaultPhaseDuration = 6
	DefaultTotalCycles   = 13
)

// DefaultBreathConfig returns the stock 6 second, 13 cycle session.
func DefaultBreathConfig() BreathConfig {
	return BreathConfig{
		PhaseDuration: DefaultPhaseDuration,
		TotalCycles:   DefaultTotalCycles,
	}
}

// SessionSeconds returns the total length of a full session.
func (config BreathConfig) SessionSeconds() int {
	return config.PhaseDuration * 4 * config.TotalCycles
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"zenbox/internal/logging"
	"zenbox/internal/settings"
)

func newSettingsCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved exercise settings",
	}
	cmd.AddCommand(
		newSettingsShowCommand(env),
		newSettingsSetCommand(env),
		newSettingsPathCommand(env),
	)
	return cmd
}

func newSettingsShowCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.settingsStore()
			if err != nil {
				return err
			}
			current, err := store.Load()
			if err != nil {
				env.logger.Warn("settings file unreadable, showing defaults", logging.Err(err))
			}
			printSettings(cmd, current)
			return nil
		},
	}
}

func newSettingsSetCommand(env *environment) *cobra.Command {
	var (
		duration  int
		cycles    int
		locale    string
		sound     bool
		countdown int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more saved settings",
		Example: `  zenbox settings set --duration 5 --cycles 10
  zenbox settings set --locale pt-BR --sound=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.settingsStore()
			if err != nil {
				return err
			}
			current, err := store.Load()
			if err != nil {
				env.logger.Warn("settings file unreadable, starting from defaults", logging.Err(err))
			}

			flags := cmd.Flags()
			if flags.Changed("duration") {
				current.PhaseDuration = duration
			}
			if flags.Changed("cycles") {
				current.TotalCycles = cycles
			}
			if flags.Changed("locale") {
				current.Locale = locale
			}
			if flags.Changed("sound") {
				current.Sound = sound
			}
			if flags.Changed("countdown") {
				current.CountdownSeconds = countdown
			}
			if errs := current.Validate(); len(errs) > 0 {
				return errs
			}

			if err := store.Save(current); err != nil {
				return err
			}
			env.logger.Info("settings saved", logging.String("path", store.Path()))
			printSettings(cmd, current.Clamp())
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&duration, "duration", 0, fmt.Sprintf("seconds per phase (%d-%d)", settings.MinPhaseDuration, settings.MaxPhaseDuration))
	flags.IntVar(&cycles, "cycles", 0, fmt.Sprintf("cycles per session (%d-%d)", settings.MinTotalCycles, settings.MaxTotalCycles))
	flags.StringVar(&locale, "locale", "", "interface language, e.g. en or pt-BR")
	flags.BoolVar(&sound, "sound", true, "play a chime on each phase")
	flags.IntVar(&countdown, "countdown", 0, fmt.Sprintf("get-ready countdown in seconds (%d-%d)", settings.MinCountdown, settings.MaxCountdown))
	return cmd
}

func newSettingsPathCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.settingsStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			return nil
		},
	}
}

func printSettings(cmd *cobra.Command, current settings.Settings) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase_duration_seconds: %d\n", current.PhaseDuration)
	fmt.Fprintf(out, "total_cycles: %d\n", current.TotalCycles)
	fmt.Fprintf(out, "locale: %s\n", current.Locale)
	fmt.Fprintf(out, "sound: %t\n", current.Sound)
	fmt.Fprintf(out, "countdown_seconds: %d\n", current.CountdownSeconds)
	length := time.Duration(current.BreathConfig().SessionSeconds()) * time.Second
	fmt.Fprintf(out, "session_length: %s\n", length)
}

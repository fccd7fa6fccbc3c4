package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"zenbox/internal/core/breath"
	"zenbox/internal/i18n"
	"zenbox/internal/logging"
	"zenbox/internal/session"
	"zenbox/internal/tui"
	"zenbox/internal/ui/sound"
)

func newTUICommand(env *environment) *cobra.Command {
	var duration, cycles int
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run a breathing session in the terminal",
		Long: `Run a breathing session in the terminal.

--duration and --cycles override the saved settings for this run only.
Keys: space start/pause, r reset, n new session, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.settingsStore()
			if err != nil {
				return err
			}
			current, err := store.Load()
			if err != nil {
				env.logger.Warn("settings file unreadable, using defaults", logging.Err(err))
			}
			if cmd.Flags().Changed("duration") {
				current.PhaseDuration = duration
			}
			if cmd.Flags().Changed("cycles") {
				current.TotalCycles = cycles
			}
			if errs := current.Validate(); len(errs) > 0 {
				return errs
			}

			translator, err := i18n.New(current.Locale)
			if err != nil {
				return fmt.Errorf("load translations: %w", err)
			}

			// Console logs would tear the alternate screen.
			logger := env.logger
			if env.cfg.Logging.File == "" {
				logger = logging.Nop()
			}

			recorder, closeHistory, err := env.openRecorder()
			if err != nil {
				logger.Warn("history unavailable", logging.Err(err))
			}
			defer closeHistory()

			chime := sound.NewChime(current.Sound, logger)
			events := breath.NewChannelObserver(64)
			notifier := tui.NewNotifier()
			controller, err := session.New(session.Options{
				Settings:  current,
				Labels:    translator.Labels(),
				Scheduler: breath.NewTickerScheduler(),
				Observer:  breath.Observers(events, chimeObserver(chime)),
				Listener:  notifier,
				Recorder:  recorder,
				Logger:    logger,
			})
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}
			defer controller.Close()

			model := tui.New(controller, translator, events.Events(), notifier)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("run terminal ui: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "seconds per phase for this session")
	cmd.Flags().IntVarP(&cycles, "cycles", "n", 0, "cycles for this session")
	return cmd
}

// chimeObserver plays the phase and completion chimes.
func chimeObserver(chime *sound.Chime) breath.Observer {
	return breath.Callbacks{
		PhaseChange: func(event breath.Event) {
			chime.PlayPhase(event.Phase)
		},
		AllCyclesComplete: func(breath.Event) {
			chime.PlayComplete()
		},
	}
}

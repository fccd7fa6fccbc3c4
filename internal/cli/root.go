// Package cli wires configuration, logging and storage into the zenbox commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zenbox/internal/config"
	"zenbox/internal/logging"
	"zenbox/internal/session"
	"zenbox/internal/storage"
)

// environment is shared by every command. It is filled in by load before
// any RunE executes.
type environment struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     logging.Logger
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the zenbox command tree.
func NewRootCommand() *cobra.Command {
	env := &environment{v: viper.New()}

	root := &cobra.Command{
		Use:   "zenbox",
		Short: "Box breathing timer",
		Long: `ZenBox guides box breathing: inhale, hold, exhale and hold again,
each for the same number of seconds, for a set number of cycles.

Without a subcommand it opens the desktop window.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: env.load,
		PersistentPostRun: env.close,
		RunE:              env.runDesktop,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&env.configFile, "config", "c", "", "config file (default is <config dir>/ZenBox/config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write JSON logs to this file, rotated")
	_ = env.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = env.v.BindPFlag("logging.file", flags.Lookup("log-file"))

	root.Flags().Bool("minimized", false, "start hidden in the system tray")
	_ = env.v.BindPFlag("desktop.start_minimized", root.Flags().Lookup("minimized"))

	root.AddCommand(
		newTUICommand(env),
		newSettingsCommand(env),
		newHistoryCommand(env),
		newAutostartCommand(env),
	)
	return root
}

func (env *environment) load(*cobra.Command, []string) error {
	if err := config.Init(env.v, env.configFile); err != nil {
		return err
	}
	cfg, err := config.Load(env.v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	env.cfg = cfg
	env.logger = logger
	return nil
}

func (env *environment) close(*cobra.Command, []string) {
	if env.logger != nil {
		_ = env.logger.Sync()
	}
}

func (env *environment) dataDir() (string, error) {
	dir, err := env.cfg.DataDir()
	if err != nil {
		return "", fmt.Errorf("resolve data directory: %w", err)
	}
	return dir, nil
}

func (env *environment) settingsStore() (*storage.SettingsStore, error) {
	dir, err := env.dataDir()
	if err != nil {
		return nil, err
	}
	return storage.NewSettingsStoreAt(storage.SettingsPath(dir)), nil
}

func (env *environment) openHistory() (*storage.History, error) {
	dir, err := env.dataDir()
	if err != nil {
		return nil, err
	}
	return storage.OpenHistory(storage.HistoryPath(dir))
}

// openRecorder returns the history as a session recorder, or nil when
// history is disabled. The returned close func is always safe to call.
func (env *environment) openRecorder() (session.Recorder, func(), error) {
	if !env.cfg.History.Enabled {
		return nil, func() {}, nil
	}
	history, err := env.openHistory()
	if err != nil {
		return nil, func() {}, err
	}
	return history, func() {
		if err := history.Close(); err != nil {
			env.logger.Warn("close history failed", logging.Err(err))
		}
	}, nil
}

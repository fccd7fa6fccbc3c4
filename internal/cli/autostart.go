package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zenbox/internal/config"
	"zenbox/internal/logging"
	"zenbox/internal/platform"
)

func newAutostartCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Start ZenBox when you log in",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Launch ZenBox minimized at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("resolve executable: %w", err)
				}
				if err := env.autostart().EnableAutostart(config.AppName, exe, "--minimized"); err != nil {
					return err
				}
				env.logger.Info("autostart enabled", logging.String("exec", exe))
				fmt.Fprintln(cmd.OutOrStdout(), "enabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop launching ZenBox at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := env.autostart().DisableAutostart(config.AppName); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "disabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether autostart is enabled",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				enabled, err := env.autostart().AutostartEnabled(config.AppName)
				if err != nil {
					return err
				}
				status := "disabled"
				if enabled {
					status = "enabled"
				}
				fmt.Fprintln(cmd.OutOrStdout(), status)
				return nil
			},
		},
	)
	return cmd
}

func (env *environment) autostart() platform.Service {
	return platform.NewService()
}

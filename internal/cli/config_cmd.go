package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/grocery/internal/ui"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the config file",
		Args:  exactArgs(0, "grocery config <show|init>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigShowCmd(app), newConfigInitCmd(app))
	return cmd
}

// show prints the effective settings: file, env and flags applied.
func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  exactArgs(0, "grocery config show"),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.cfg.YAML()
			if err != nil {
				return err
			}
			lines := []string{ui.C(ui.Current().Title, app.cfgPath), ""}
			lines = append(lines, strings.Split(strings.TrimRight(string(data), "\n"), "\n")...)
			ui.Panel(lines)
			return nil
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  exactArgs(0, "grocery config init [--force]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stat(app.cfgPath)
			switch {
			case err == nil && !force:
				return fmt.Errorf("%s already exists (use --force to overwrite)", app.cfgPath)
			case err != nil && !errors.Is(err, os.ErrNotExist):
				return fmt.Errorf("stat config: %w", err)
			}
			if err := app.cfg.Save(app.cfgPath); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			app.log.Info("config written", zap.String("path", app.cfgPath))
			ui.OK("wrote " + app.cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

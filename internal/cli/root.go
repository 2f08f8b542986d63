package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/grocery/internal/clock"
	"github.com/idilsaglam/grocery/internal/items"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/tui"
	"github.com/idilsaglam/grocery/internal/ui"
)

// exitError carries the process exit code (1 runtime error, 2 usage).
// reported errors were already shown to the user as a toast.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

// Execute runs the root command and returns an exit code.
func Execute(ctx context.Context, args []string) int {
	app := &App{}
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil && app.log != nil {
		app.log.Warn("command failed", zap.Strings("args", args), zap.Error(err))
	}
	code := exitCode(err)
	// Post-run hooks are skipped on error, so the logger is flushed here.
	app.close()
	return code
}

// exitCode prints err unless a toast already did, and maps it to a code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.reported {
			ui.Fail(ee.Error())
		}
		return ee.code
	}
	ui.Fail(err.Error())
	return 1
}

func NewRootCmd() *cobra.Command { return newRootCmd(&App{}) }

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grocery",
		Short:         "grocery - a tiny list manager (TUI + CLI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  grocery

  # Scriptable commands
  grocery add "Buy milk" --due 2026-10-20
  grocery ls --group
  grocery done 2
  grocery rename 1 "Oat milk"
  grocery rm 3

  # Write the current settings to ~/.grocery/config.yaml
  grocery --backend sqlite config init
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	f := cmd.PersistentFlags()
	f.StringVar(&app.ConfigPath, "config", "", "config file (default ~/.grocery/config.yaml)")
	f.StringVar(&app.DataDir, "data", "", "data directory (overrides storage.dir)")
	f.StringVar(&app.Backend, "backend", "", "storage backend: json or sqlite")
	f.BoolVarP(&app.Verbose, "verbose", "v", false, "debug logging")
	f.BoolVar(&app.Ephemeral, "ephemeral", false, "keep the list in memory only")

	cmd.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newDoneCmd(app),
		newRemoveCmd(app),
		newRenameCmd(app),
		newConfigCmd(app),
	)
	return cmd
}

func runTUI(ctx context.Context, app *App) error {
	slot, watch, err := app.openSlot(ctx)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Slot:  slot,
		Watch: watch,
		Log:   app.log,
		Toast: app.toastOptions(clock.Real{}),
	})
}

func newListCmd(app *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    exactArgs(0, "grocery ls [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), group)
			if err != nil {
				return err
			}
			defer s.close()
			fmt.Fprintln(cmd.OutOrStdout(), s.surface.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a new item (name can be multiple words)",
		Args:  minArgs(1, "grocery add <name...> [--due YYYY-MM-DD]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDue(due)
			if err != nil {
				return err
			}
			s, err := app.openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.close()
			_, err = s.store.Add(strings.Join(args, " "), d)
			return storeErr(err)
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index|id>",
		Short: "Toggle completed for an item (1-based index or id)",
		Args:  exactArgs(1, "grocery done <index|id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.close()
			id, err := resolveItem(s.store, args[0])
			if err != nil {
				return err
			}
			if err := s.store.Toggle(id); err != nil {
				return storeErr(err)
			}
			it, _ := s.store.Lookup(id)
			if it.Completed {
				ui.OK("done: " + it.Name)
			} else {
				ui.OK("pending: " + it.Name)
			}
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index|id>",
		Aliases: []string{"remove"},
		Short:   "Remove an item (1-based index or id)",
		Args:    exactArgs(1, "grocery rm <index|id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.close()
			id, err := resolveItem(s.store, args[0])
			if err != nil {
				return err
			}
			return storeErr(s.store.Remove(id))
		},
	}
}

func newRenameCmd(app *App) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "rename <index|id> <name...>",
		Short: "Rename an item, optionally replacing its due date",
		Args:  minArgs(2, "grocery rename <index|id> <name...> [--due YYYY-MM-DD]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDue(due)
			if err != nil {
				return err
			}
			s, err := app.openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.close()
			id, err := resolveItem(s.store, args[0])
			if err != nil {
				return err
			}
			s.store.BeginEdit(id)
			return storeErr(s.store.Rename(strings.Join(args[1:], " "), d))
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "new due date (YYYY-MM-DD)")
	return cmd
}

// -------------- arg helpers ----------------

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErr("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErr("usage: %s", usage)
		}
		return nil
	}
}

func parseDue(s string) (*model.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, usageErr("due: %v (want YYYY-MM-DD)", err)
	}
	return &d, nil
}

// resolveItem accepts a 1-based index as printed by `ls`, or an item id.
func resolveItem(s *items.Store, ref string) (string, error) {
	list := s.Items()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return "", usageErr("index out of range: have %d, got %d (run `grocery ls` to see valid indexes)", len(list), n)
		}
		return list[n-1].ID, nil
	}
	if _, ok := s.Lookup(ref); ok {
		return ref, nil
	}
	return "", usageErr("no item with id %q", ref)
}

// storeErr maps store failures to exit codes. The store already raised a
// toast for both kinds, so nothing more is printed.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var vErr *items.ValidationError
	if errors.As(err, &vErr) {
		return &exitError{code: 2, err: err, reported: true}
	}
	return &exitError{code: 1, err: err, reported: true}
}

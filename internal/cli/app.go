package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/idilsaglam/grocery/internal/clock"
	"github.com/idilsaglam/grocery/internal/config"
	"github.com/idilsaglam/grocery/internal/items"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/render"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/store/jsonstore"
	"github.com/idilsaglam/grocery/internal/store/sqlitestore"
	"github.com/idilsaglam/grocery/internal/toast"
	"github.com/idilsaglam/grocery/internal/ui"
)

// App carries root flags and the resources opened from them.
type App struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Verbose    bool
	Ephemeral  bool

	cfg     *config.Config
	cfgPath string
	log     *zap.Logger
	errOut  io.Writer
	today   func() model.Date
}

func (a *App) setup(out, errOut io.Writer) error {
	path := a.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.DataDir != "" {
		cfg.Storage.Dir = a.DataDir
	}
	if a.Backend != "" {
		cfg.Storage.Backend = a.Backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg, a.cfgPath = cfg, path

	ui.SetOutput(out, errOut)
	ui.SetTheme(cfg.Theme)
	a.errOut = errOut

	log, err := newLogger(cfg, a.Verbose)
	if err != nil {
		// Logging is never worth failing a command over.
		log = zap.NewNop()
	}
	a.log = log
	return nil
}

func (a *App) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// newLogger writes JSON logs to a file so they never collide with the TUI.
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	path := cfg.LogFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	return zc.Build()
}

// watchFunc reports outside changes to the slot; nil when the backend
// cannot be watched.
type watchFunc func(ctx context.Context, onChange func()) error

func (a *App) openSlot(ctx context.Context) (store.Slot, watchFunc, error) {
	if a.Ephemeral {
		return &store.Memory{}, nil, nil
	}
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		path := filepath.Join(a.cfg.Storage.Dir, sqlitestore.DatabaseFileName)
		s, err := sqlitestore.Open(ctx, path, a.cfg.Storage.Key, a.log)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		s := jsonstore.New(a.cfg.Storage.Dir, a.log)
		return s, s.Watch, nil
	}
}

func (a *App) toastOptions(clk clock.Clock) []toast.Option {
	d, _ := a.cfg.ToastDuration()
	opts := []toast.Option{
		toast.WithClock(clk),
		toast.WithLogger(a.log),
		toast.WithDefaultDuration(d),
	}
	if a.cfg.Toast.Sound {
		opts = append(opts, toast.WithTone(toast.Bell{W: a.errOut}))
	}
	if a.cfg.Toast.Vibration {
		opts = append(opts, toast.WithVibrator(logVibrator{log: a.log}))
	}
	return opts
}

// logVibrator stands in for a haptic motor, which terminals do not have.
type logVibrator struct {
	log *zap.Logger
}

func (v logVibrator) Vibrate(pattern []time.Duration) error {
	v.log.Debug("vibrate", zap.Durations("pattern", pattern))
	return nil
}

// session is one CLI command's view of the list.
type session struct {
	store   *items.Store
	surface *consoleSurface
}

func (a *App) openSession(ctx context.Context, group bool) (*session, error) {
	slot, _, err := a.openSlot(ctx)
	if err != nil {
		return nil, err
	}
	surface := &consoleSurface{}
	orch := render.New(consoleForm{}, consoleList{group: group, today: a.today}, surface, clock.Real{})
	opts := append(a.toastOptions(clock.Real{}), toast.WithObserver(printToast))
	center := toast.New(opts...)
	st := items.New(slot, orch, center, items.WithLogger(a.log))
	return &session{store: st, surface: surface}, nil
}

func (s *session) close() error {
	return s.store.Dispose()
}

// printToast turns toasts into console lines as they are shown.
func printToast(ev toast.Event) {
	if ev.Type != toast.Shown {
		return
	}
	switch ev.Toast.Kind {
	case toast.Success:
		ui.OK(ev.Toast.Message)
	case toast.Error:
		ui.Fail(ev.Toast.Message)
	default:
		ui.Info(ev.Toast.Message)
	}
}

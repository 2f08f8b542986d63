// Package tui is the interactive terminal front end: a Bubble Tea program
// whose screen is rebuilt from the item store on every change.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/grocery/internal/clock"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/toast"
)

type Options struct {
	Slot store.Slot
	// Watch reports outside changes to Slot until its context ends. Optional.
	Watch func(ctx context.Context, onChange func()) error
	Log   *zap.Logger
	Toast []toast.Option
}

// sender forwards messages into the running program. Sends happen on their
// own goroutine so timers and observers firing inside Update never block
// the event loop.
type sender struct {
	p atomic.Pointer[tea.Program]
}

func (s *sender) Send(msg tea.Msg) {
	if p := s.p.Load(); p != nil {
		go p.Send(msg)
	}
}

// Run starts the TUI and blocks until the user quits or ctx ends. The
// store is disposed on the way out.
func Run(ctx context.Context, opt Options) error {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}

	snd := &sender{}
	m := newModel(deps{
		slot:         opt.Slot,
		clock:        clock.Real{},
		send:         snd.Send,
		log:          log,
		toastOptions: opt.Toast,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	snd.p.Store(p)

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	g.Go(func() error {
		defer stopWatch()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
	if opt.Watch != nil {
		g.Go(func() error {
			err := opt.Watch(watchCtx, func() { snd.Send(reloadMsg{}) })
			if err != nil {
				// The list still works without live reload.
				log.Warn("watch stopped", zap.Error(err))
			}
			return nil
		})
	}

	err := g.Wait()
	if derr := m.store.Dispose(); derr != nil && err == nil {
		err = derr
	}
	log.Info("tui closed", zap.Error(err))
	return err
}

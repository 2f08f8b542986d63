// Package items owns the grocery list and its edit target.
//
// Every mutation saves the full list, then renders, then (for user visible
// outcomes) raises a toast. A Store is driven from a single goroutine and is
// not safe for concurrent use.
package items

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/grocery/internal/ids"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/toast"
)

const (
	MsgAdded      = "Item Added Successfully!"
	MsgDeleted    = "Item Deleted Successfully!"
	MsgUpdated    = "Item Updated Successfully!"
	MsgEmptyName  = "Please provide a value"
	MsgSaveFailed = "Could not save the list"
	MsgReloaded   = "List reloaded"
)

var (
	ErrEmptyName = &ValidationError{Field: "name", Reason: "must not be empty"}
	ErrDisposed  = errors.New("items: store disposed")
)

// ValidationError rejects user input before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Renderer interface {
	Render(v model.View)
	RequestFocus()
}

type Notifier interface {
	Show(message string, kind toast.Kind, d time.Duration) int
}

type Store struct {
	slot     store.Slot
	renderer Renderer
	notifier Notifier
	log      *zap.Logger
	newID    func() string

	items      []model.Item
	editTarget string
	disposed   bool
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// New loads the list from slot and paints it once.
func New(slot store.Slot, r Renderer, n Notifier, opts ...Option) *Store {
	s := &Store{
		slot:     slot,
		renderer: r,
		notifier: n,
		log:      zap.NewNop(),
		newID:    ids.New,
	}
	for _, o := range opts {
		o(s)
	}
	s.items = slot.Load()
	s.log.Debug("store loaded", zap.Int("items", len(s.items)))
	s.render()
	return s
}

func (s *Store) Add(name string, due *model.Date) (model.Item, error) {
	if s.disposed {
		return model.Item{}, ErrDisposed
	}
	name = strings.TrimSpace(name)
	if name == "" {
		s.notify(MsgEmptyName, toast.Error)
		return model.Item{}, ErrEmptyName
	}
	it := model.Item{
		ID:      s.newID(),
		Name:    name,
		DueDate: copyDate(due),
	}
	err := s.commit(func() {
		s.items = append(slices.Clip(s.items), it)
	})
	if err != nil {
		return model.Item{}, err
	}
	s.log.Info("item added", zap.String("id", it.ID), zap.String("name", it.Name))
	s.notify(MsgAdded, toast.Success)
	return it, nil
}

// Toggle flips the completed flag. It never raises a toast.
func (s *Store) Toggle(id string) error {
	if s.disposed {
		return ErrDisposed
	}
	i := s.index(id)
	if i < 0 {
		s.render()
		return nil
	}
	return s.commit(func() {
		s.items = slices.Clone(s.items)
		s.items[i].Completed = !s.items[i].Completed
	})
}

func (s *Store) Remove(id string) error {
	if s.disposed {
		return ErrDisposed
	}
	i := s.index(id)
	if i < 0 {
		s.render()
		return nil
	}
	err := s.commit(func() {
		s.items = slices.Delete(slices.Clone(s.items), i, i+1)
		if s.editTarget == id {
			s.editTarget = ""
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("item removed", zap.String("id", id))
	s.notify(MsgDeleted, toast.Success)
	return nil
}

// Rename updates the item under edit. A nil due date keeps the current one.
func (s *Store) Rename(name string, due *model.Date) error {
	if s.disposed {
		return ErrDisposed
	}
	name = strings.TrimSpace(name)
	i := s.index(s.editTarget)
	if i < 0 {
		s.editTarget = ""
		s.render()
		return nil
	}
	if name == "" {
		s.notify(MsgEmptyName, toast.Error)
		return ErrEmptyName
	}
	err := s.commit(func() {
		s.items = slices.Clone(s.items)
		s.items[i].Name = name
		if due != nil {
			s.items[i].DueDate = copyDate(due)
		}
		s.editTarget = ""
	})
	if err != nil {
		return err
	}
	s.log.Info("item renamed", zap.String("id", s.items[i].ID), zap.String("name", name))
	s.notify(MsgUpdated, toast.Success)
	return nil
}

// BeginEdit points the edit target at id and asks for the form to be
// focused after the render lands.
func (s *Store) BeginEdit(id string) {
	if s.disposed {
		return
	}
	s.editTarget = id
	s.render()
	s.renderer.RequestFocus()
}

func (s *Store) CancelEdit() {
	if s.disposed {
		return
	}
	s.editTarget = ""
	s.render()
}

// Reload re-reads the slot after an outside change. It reports whether the
// list differed from memory.
func (s *Store) Reload() bool {
	if s.disposed {
		return false
	}
	loaded := s.slot.Load()
	if model.EqualItems(loaded, s.items) {
		return false
	}
	s.items = loaded
	if s.index(s.editTarget) < 0 {
		s.editTarget = ""
	}
	s.render()
	s.log.Info("list reloaded", zap.Int("items", len(loaded)))
	s.notify(MsgReloaded, toast.Info)
	return true
}

// Render repaints current state without changing it.
func (s *Store) Render() { s.render() }

func (s *Store) Items() []model.Item { return slices.Clone(s.items) }

func (s *Store) EditTarget() string { return s.editTarget }

func (s *Store) Lookup(id string) (model.Item, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return model.Item{}, false
}

// View snapshots the state for rendering. The edit target is resolved here,
// so a dangling id simply yields no Editing item.
func (s *Store) View() model.View {
	v := model.View{Items: slices.Clone(s.items), EditTarget: s.editTarget}
	if it, ok := s.Lookup(s.editTarget); ok {
		v.Editing = &it
	}
	return v
}

// Dispose releases the slot. Later mutations return ErrDisposed.
func (s *Store) Dispose() error {
	if s.disposed {
		return nil
	}
	s.disposed = true
	if c, ok := s.slot.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close slot: %w", err)
		}
	}
	return nil
}

// commit applies mutate, saves and renders. If the save fails the previous
// state is restored so memory never runs ahead of the slot.
func (s *Store) commit(mutate func()) error {
	prevItems, prevEdit := s.items, s.editTarget
	mutate()
	if err := s.slot.Save(s.items); err != nil {
		s.items, s.editTarget = prevItems, prevEdit
		s.render()
		s.log.Error("save failed", zap.Error(err))
		s.notify(MsgSaveFailed, toast.Error)
		return fmt.Errorf("save: %w", err)
	}
	s.render()
	return nil
}

func (s *Store) render() {
	s.renderer.Render(s.View())
}

func (s *Store) notify(msg string, kind toast.Kind) {
	if s.notifier != nil {
		s.notifier.Show(msg, kind, 0)
	}
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}

func copyDate(d *model.Date) *model.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

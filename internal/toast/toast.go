// Package toast raises transient notifications with sound and vibration cues.
//
// Every toast follows the same path: entering, visible after one short tick,
// hiding once its duration runs out (or it is closed), removed after a grace
// period. Timers are never cancelled; Hide is idempotent instead.
package toast

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/grocery/internal/clock"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
	Warning Kind = "warning"
)

func (k Kind) Icon() string {
	switch k {
	case Success:
		return "✓"
	case Error:
		return "✕"
	case Warning:
		return "⚠"
	default:
		return "ℹ"
	}
}

const (
	DefaultDuration = 4000 * time.Millisecond
	EnterDelay      = 10 * time.Millisecond
	HideGrace       = 300 * time.Millisecond
)

type Phase int

const (
	Entering Phase = iota
	Visible
	Hiding
)

func (p Phase) String() string {
	switch p {
	case Entering:
		return "entering"
	case Visible:
		return "visible"
	case Hiding:
		return "hiding"
	}
	return "unknown"
}

type Toast struct {
	ID       int
	Message  string
	Kind     Kind
	Duration time.Duration
	Phase    Phase
	ShownAt  time.Time
}

// Remaining is the time left before auto-dismiss, clamped at zero.
func (t Toast) Remaining(now time.Time) time.Duration {
	left := t.Duration - now.Sub(t.ShownAt)
	if left < 0 {
		return 0
	}
	return left
}

type EventType int

const (
	Shown EventType = iota
	Entered
	HideStarted
	Removed
)

type Event struct {
	Type  EventType
	Toast Toast
}

type Center struct {
	mu     sync.Mutex
	nextID int
	live   []*Toast

	clock     clock.Clock
	tone      TonePlayer
	vibrator  Vibrator
	log       *zap.Logger
	observers []func(Event)
	duration  time.Duration
}

type Option func(*Center)

func WithClock(c clock.Clock) Option { return func(n *Center) { n.clock = c } }
func WithTone(p TonePlayer) Option { return func(n *Center) { n.tone = p } }
func WithVibrator(v Vibrator) Option { return func(n *Center) { n.vibrator = v } }
func WithLogger(l *zap.Logger) Option { return func(n *Center) { n.log = l } }
func WithObserver(fn func(Event)) Option { return func(n *Center) { n.observers = append(n.observers, fn) } }

// WithDefaultDuration changes how long toasts shown without a duration stay up.
func WithDefaultDuration(d time.Duration) Option {
	return func(n *Center) {
		if d > 0 {
			n.duration = d
		}
	}
}

func New(opts ...Option) *Center {
	c := &Center{clock: clock.Real{}, log: zap.NewNop(), duration: DefaultDuration}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Show raises a toast and returns its id. An empty kind means Success and a
// non-positive duration means the center's default (DefaultDuration unless
// configured).
func (c *Center) Show(message string, kind Kind, d time.Duration) int {
	if kind == "" {
		kind = Success
	}
	if d <= 0 {
		d = c.duration
	}

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	c.playCues(kind)

	t := &Toast{
		ID:       id,
		Message:  message,
		Kind:     kind,
		Duration: d,
		Phase:    Entering,
		ShownAt:  c.clock.Now(),
	}
	c.mu.Lock()
	c.live = append(c.live, t)
	snap := *t
	c.mu.Unlock()

	c.log.Debug("toast shown", zap.Int("id", id), zap.String("kind", string(kind)), zap.String("message", message))
	c.emit(Event{Type: Shown, Toast: snap})

	c.clock.AfterFunc(EnterDelay, func() { c.enter(id) })
	c.clock.AfterFunc(d, func() { c.Hide(id) })
	return id
}

func (c *Center) playCues(kind Kind) {
	if c.tone != nil {
		tone := ToneFor(kind)
		cue(c.log, "tone", func() error { return c.tone.PlayTone(tone) })
	}
	if c.vibrator != nil && vibrates(kind) {
		cue(c.log, "vibration", func() error { return c.vibrator.Vibrate(VibrationPattern) })
	}
}

func (c *Center) enter(id int) {
	c.mu.Lock()
	t := c.find(id)
	if t == nil || t.Phase != Entering {
		c.mu.Unlock()
		return
	}
	t.Phase = Visible
	snap := *t
	c.mu.Unlock()
	c.emit(Event{Type: Entered, Toast: snap})
}

// Hide starts the exit of a toast and removes it after HideGrace. Unknown or
// already hiding ids are ignored.
func (c *Center) Hide(id int) {
	c.mu.Lock()
	t := c.find(id)
	if t == nil || t.Phase == Hiding {
		c.mu.Unlock()
		return
	}
	t.Phase = Hiding
	snap := *t
	c.mu.Unlock()

	c.emit(Event{Type: HideStarted, Toast: snap})
	c.clock.AfterFunc(HideGrace, func() { c.remove(id) })
}

func (c *Center) remove(id int) {
	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	snap := *c.live[i]
	c.live = slices.Delete(c.live, i, i+1)
	c.mu.Unlock()

	c.log.Debug("toast removed", zap.Int("id", id))
	c.emit(Event{Type: Removed, Toast: snap})
}

// Live returns the current toasts, oldest first.
func (c *Center) Live() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, 0, len(c.live))
	for _, t := range c.live {
		out = append(out, *t)
	}
	return out
}

func (c *Center) Get(id int) (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.find(id); t != nil {
		return *t, true
	}
	return Toast{}, false
}

// Newest returns the most recent toast that is not already hiding.
func (c *Center) Newest() (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.live) - 1; i >= 0; i-- {
		if c.live[i].Phase != Hiding {
			return *c.live[i], true
		}
	}
	return Toast{}, false
}

func (c *Center) Now() time.Time { return c.clock.Now() }

func (c *Center) find(id int) *Toast {
	if i := c.index(id); i >= 0 {
		return c.live[i]
	}
	return nil
}

func (c *Center) index(id int) int {
	return slices.IndexFunc(c.live, func(t *Toast) bool { return t.ID == id })
}

func (c *Center) emit(ev Event) {
	for _, fn := range c.observers {
		fn(ev)
	}
}

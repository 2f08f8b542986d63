// Package clock schedules fire-and-forget callbacks.
//
// Real wraps the runtime timers. Manual only advances when told to, which
// makes toast lifecycles and deferred focus requests deterministic in tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	// AfterFunc runs f once, d after the call. There is no way to cancel it.
	AfterFunc(d time.Duration, f func())
}

type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

type pending struct {
	at  time.Time
	seq int
	f   func()
}

// Manual is a Clock whose time only moves on Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	queue []pending
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.queue = append(m.queue, pending{at: m.now.Add(d), seq: m.seq, f: f})
}

// Advance moves time forward by d and runs every callback that became due,
// earliest first. Callbacks scheduled while advancing run too if they fall
// inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next, ok := m.popDue(target)
		if !ok {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.at
		m.mu.Unlock()
		next.f()
	}
}

// Pending returns how many callbacks are still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *Manual) popDue(target time.Time) (pending, bool) {
	if len(m.queue) == 0 {
		return pending{}, false
	}
	sort.SliceStable(m.queue, func(i, j int) bool {
		if m.queue[i].at.Equal(m.queue[j].at) {
			return m.queue[i].seq < m.queue[j].seq
		}
		return m.queue[i].at.Before(m.queue[j].at)
	})
	if m.queue[0].at.After(target) {
		return pending{}, false
	}
	p := m.queue[0]
	m.queue = m.queue[1:]
	return p, true
}

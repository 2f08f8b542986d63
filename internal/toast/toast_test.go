package toast

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/idilsaglam/grocery/internal/clock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingTone struct {
	tones []Tone
	err   error
}

func (r *recordingTone) PlayTone(t Tone) error {
	r.tones = append(r.tones, t)
	return r.err
}

type recordingVibrator struct {
	calls int
}

func (r *recordingVibrator) Vibrate(p []time.Duration) error {
	r.calls++
	return nil
}

type panickingVibrator struct{}

func (panickingVibrator) Vibrate([]time.Duration) error { panic("no motor") }

func newTestCenter(opts ...Option) (*Center, *clock.Manual) {
	clk := clock.NewManual(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	return New(append([]Option{WithClock(clk)}, opts...)...), clk
}

func TestShow_Lifecycle(t *testing.T) {
	c, clk := newTestCenter()

	id := c.Show("x", Error, 100*time.Millisecond)
	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, Entering, got.Phase)
	assert.Equal(t, Error, got.Kind)

	clk.Advance(EnterDelay)
	got, _ = c.Get(id)
	assert.Equal(t, Visible, got.Phase)

	clk.Advance(100*time.Millisecond - EnterDelay)
	got, ok = c.Get(id)
	require.True(t, ok)
	assert.Equal(t, Hiding, got.Phase)

	clk.Advance(HideGrace - time.Millisecond)
	_, ok = c.Get(id)
	assert.True(t, ok, "removed before the grace period ended")

	clk.Advance(time.Millisecond)
	_, ok = c.Get(id)
	assert.False(t, ok)
	assert.Empty(t, c.Live())
	assert.Zero(t, clk.Pending())
}

func TestShow_Defaults(t *testing.T) {
	c, _ := newTestCenter()
	id := c.Show("saved", "", 0)
	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, Success, got.Kind)
	assert.Equal(t, DefaultDuration, got.Duration)
}

func TestShow_ConfiguredDefaultDuration(t *testing.T) {
	c, clk := newTestCenter(WithDefaultDuration(time.Second))
	id := c.Show("short", Info, 0)
	clk.Advance(time.Second)
	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, Hiding, got.Phase)
}

func TestShow_IDsAreMonotonicAndStackInOrder(t *testing.T) {
	c, _ := newTestCenter()
	a := c.Show("a", Info, 0)
	b := c.Show("b", Warning, 0)
	d := c.Show("c", Success, 0)
	assert.Equal(t, []int{1, 2, 3}, []int{a, b, d})

	var msgs []string
	for _, tt := range c.Live() {
		msgs = append(msgs, tt.Message)
	}
	assert.Equal(t, []string{"a", "b", "c"}, msgs)
}

func TestHide_Idempotent(t *testing.T) {
	var events []EventType
	c, clk := newTestCenter(WithObserver(func(e Event) { events = append(events, e.Type) }))

	id := c.Show("x", Success, time.Second)
	c.Hide(id)
	c.Hide(id)
	clk.Advance(HideGrace)
	_, ok := c.Get(id)
	assert.False(t, ok)

	// Auto-dismiss timer still fires later and must be absorbed.
	clk.Advance(2 * time.Second)
	c.Hide(id)
	c.Hide(999)

	assert.Equal(t, []EventType{Shown, HideStarted, Removed}, events)
}

func TestHide_EarlyCloseBeforeEnter(t *testing.T) {
	c, clk := newTestCenter()
	id := c.Show("x", Info, time.Second)
	c.Hide(id)
	clk.Advance(EnterDelay)
	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, Hiding, got.Phase, "entrance tick must not revive a hiding toast")
}

func TestNewest_SkipsHiding(t *testing.T) {
	c, _ := newTestCenter()
	a := c.Show("a", Info, 0)
	b := c.Show("b", Info, 0)
	c.Hide(b)
	got, ok := c.Newest()
	require.True(t, ok)
	assert.Equal(t, a, got.ID)
}

func TestCues_PerKind(t *testing.T) {
	tone := &recordingTone{}
	vib := &recordingVibrator{}
	c, _ := newTestCenter(WithTone(tone), WithVibrator(vib))

	c.Show("s", Success, 0)
	c.Show("e", Error, 0)
	c.Show("i", Info, 0)
	c.Show("w", Warning, 0)
	c.Show("?", Kind("mystery"), 0)

	require.Len(t, tone.tones, 5)
	var freqs []float64
	for _, tt := range tone.tones {
		freqs = append(freqs, tt.Frequency)
		assert.Equal(t, 300*time.Millisecond, tt.Duration)
		assert.Equal(t, "sine", tt.Waveform)
	}
	assert.Equal(t, []float64{523.25, 220, 392, 311.13, 440}, freqs)
	assert.Equal(t, 2, vib.calls, "only success and error vibrate")
}

func TestCues_FailuresDoNotBlockToast(t *testing.T) {
	tone := &recordingTone{err: errors.New("no audio device")}
	c, _ := newTestCenter(WithTone(tone), WithVibrator(panickingVibrator{}))

	id := c.Show("still here", Success, 0)
	_, ok := c.Get(id)
	assert.True(t, ok)
	assert.Len(t, tone.tones, 1)
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Bell{W: &buf}.PlayTone(ToneFor(Success)))
	assert.Equal(t, "\a", buf.String())
	assert.Error(t, Bell{}.PlayTone(ToneFor(Success)))
}

func TestKind_Icon(t *testing.T) {
	assert.Equal(t, "✓", Success.Icon())
	assert.Equal(t, "✕", Error.Icon())
	assert.Equal(t, "ℹ", Info.Icon())
	assert.Equal(t, "⚠", Warning.Icon())
	assert.Equal(t, "ℹ", Kind("other").Icon())
}

func TestToast_Remaining(t *testing.T) {
	start := time.Unix(100, 0)
	tt := Toast{Duration: time.Second, ShownAt: start}
	assert.Equal(t, 600*time.Millisecond, tt.Remaining(start.Add(400*time.Millisecond)))
	assert.Zero(t, tt.Remaining(start.Add(2*time.Second)))
}

func TestRealClock_RemovesToast(t *testing.T) {
	c := New()
	id := c.Show("real", Info, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := c.Get(id)
		return !ok
	}, 3*time.Second, 10*time.Millisecond)
}

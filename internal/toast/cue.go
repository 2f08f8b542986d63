package toast

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Tone describes the short synthesized beep played with a toast.
type Tone struct {
	Frequency float64 // Hz
	Waveform  string
	Duration  time.Duration
	Gain      float64 // starting gain
	EndGain   float64 // gain reached at the end of an exponential ramp
}

var frequencies = map[Kind]float64{
	Success: 523.25, // C5
	Error:   220,    // A3
	Info:    392,    // G4
	Warning: 311.13, // D#4
}

const defaultFrequency = 440

// VibrationPattern alternates on and off durations.
var VibrationPattern = []time.Duration{10 * time.Millisecond, 5 * time.Millisecond, 10 * time.Millisecond}

func ToneFor(k Kind) Tone {
	f, ok := frequencies[k]
	if !ok {
		f = defaultFrequency
	}
	return Tone{
		Frequency: f,
		Waveform:  "sine",
		Duration:  300 * time.Millisecond,
		Gain:      0.1,
		EndGain:   0.01,
	}
}

// vibrates reports whether a kind gets haptic feedback.
func vibrates(k Kind) bool {
	return k == Success || k == Error
}

type TonePlayer interface {
	PlayTone(Tone) error
}

type Vibrator interface {
	Vibrate(pattern []time.Duration) error
}

// Bell rings the terminal bell. Terminals have no pitch control, so the tone
// only decides whether to ring.
type Bell struct {
	W io.Writer
}

func (b Bell) PlayTone(Tone) error {
	if b.W == nil {
		return fmt.Errorf("bell: no output")
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// cue runs one provider call, swallowing errors and panics.
func cue(log *zap.Logger, what string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("cue panicked", zap.String("cue", what), zap.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		log.Debug("cue unavailable", zap.String("cue", what), zap.Error(err))
	}
}

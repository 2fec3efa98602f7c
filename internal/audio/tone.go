// Package audio plays the short cue that marks the reaction panel turning to go.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is a sine oscillator with a short linear attack and release.
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
	ramp     int
	rate     beep.SampleRate
}

// NewTone returns a sine streamer of freq Hz lasting duration.
func NewTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	ramp := rate.N(5 * time.Millisecond)
	if ramp*2 > total {
		ramp = total / 2
	}
	return &tone{freq: freq, total: total, ramp: ramp, rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		val := math.Sin(2*math.Pi*t.phase) * t.gain()
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) gain() float64 {
	if t.ramp == 0 {
		return 1
	}
	if t.position < t.ramp {
		return float64(t.position) / float64(t.ramp)
	}
	if left := t.total - t.position; left < t.ramp {
		return float64(left) / float64(t.ramp)
	}
	return 1
}

func (t *tone) Err() error { return nil }

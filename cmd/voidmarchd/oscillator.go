package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is a minimal sine-wave beep.Streamer, trimmed to the one wave shape
// voidmarchd's cues need — gameplay cues are short, fixed-pitch blips, not
// a full wave/envelope palette.
type tone struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

func newTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, duration: rate.N(duration), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, false
		}
		val := math.Sin(2 * math.Pi * t.phase)
		samples[i][0], samples[i][1] = val, val
		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

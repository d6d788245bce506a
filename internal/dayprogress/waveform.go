package dayprogress

import (
	"math"
	"time"
)

// WaveformBars is the number of bars in the decorative waveform, one per hour.
const WaveformBars = 24

// Bar is one waveform column. Height is a percentage in [25, 75).
type Bar struct {
	Height float64
	Lit    bool
}

// Waveform returns the decorative bars for now. Heights only move once a
// minute; bars before the current hour are lit.
func Waveform(now time.Time) []Bar {
	bars := make([]Bar, WaveformBars)
	minute := now.Minute()
	hour := now.Hour() % 24
	for i := range bars {
		seed := (i*7 + minute*11) % 100
		bars[i] = Bar{
			Height: 25 + float64(seed)/100*50,
			Lit:    i < hour,
		}
	}
	return bars
}

// RingGeometry describes a circular progress stroke.
type RingGeometry struct {
	Circumference float64
	Offset        float64
}

// Ring returns the dash geometry for a ring of the given radius filled to
// fraction.
func Ring(fraction, radius float64) RingGeometry {
	c := 2 * math.Pi * radius
	return RingGeometry{
		Circumference: c,
		Offset:        c - fraction*c,
	}
}

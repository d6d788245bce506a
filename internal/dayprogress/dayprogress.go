// Package dayprogress derives where a wall-clock instant sits within its
// calendar day: fraction passed, time left, phase and the decorative waveform.
package dayprogress

import (
	"math"
	"time"
)

// Phase is a six-hour bucket of the local day.
type Phase int

const (
	PhaseNight Phase = iota
	PhaseMorning
	PhaseAfternoon
	PhaseEvening
)

// PhaseCount is the number of day phases.
const PhaseCount = 4

// Snapshot holds everything derived from a single clock sample.
type Snapshot struct {
	At          time.Time
	Fraction    float64
	Percent     int
	MinutesLeft int
	HoursLeft   int
	MinutesOnly int
	Phase       Phase
}

// Compute derives the day progress values for now, in now's location.
func Compute(now time.Time) Snapshot {
	fraction := DayFraction(now)
	minutesLeft := MinutesLeft(now)
	return Snapshot{
		At:          now,
		Fraction:    fraction,
		Percent:     int(math.Round(fraction * 100)),
		MinutesLeft: minutesLeft,
		HoursLeft:   minutesLeft / 60,
		MinutesOnly: minutesLeft % 60,
		Phase:       PhaseOf(now.Hour()),
	}
}

// DayFraction returns the elapsed share of the local day, measured from
// midnight to 23:59:59.999.
func DayFraction(now time.Time) float64 {
	start := startOfDay(now)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())
	span := end.Sub(start)
	if span <= 0 {
		return 0
	}
	fraction := float64(now.Sub(start)) / float64(span)
	return math.Max(0, math.Min(1, fraction))
}

// MinutesLeft returns whole minutes until the 23:59 cutoff, never negative.
func MinutesLeft(now time.Time) int {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	mins := math.Round(cutoff.Sub(now).Minutes())
	if mins < 0 {
		return 0
	}
	return int(mins)
}

// PhaseOf buckets a local hour (0-23).
func PhaseOf(hour int) Phase {
	switch {
	case hour < 6:
		return PhaseNight
	case hour < 12:
		return PhaseMorning
	case hour < 18:
		return PhaseAfternoon
	default:
		return PhaseEvening
	}
}

// PhaseBoundaries are the hour labels drawn under the phase indicator.
func PhaseBoundaries() []int {
	return []int{0, 6, 12, 18, 24}
}

func (p Phase) String() string {
	switch p {
	case PhaseNight:
		return "night"
	case PhaseMorning:
		return "morning"
	case PhaseAfternoon:
		return "afternoon"
	case PhaseEvening:
		return "evening"
	default:
		return "unknown"
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

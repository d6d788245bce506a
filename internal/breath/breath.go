// Package breath implements the breathing pacer: a four-phase cycle
// (inhale, hold, exhale, hold) advanced once per second.
package breath

import (
	"fmt"
	"strings"
)

// Phase indexes the four steps of a breathing cycle.
type Phase int

const (
	PhaseInhale Phase = iota
	PhaseHoldIn
	PhaseExhale
	PhaseHoldOut
)

const phaseCount = 4

const (
	minScale = 0.55
	maxScale = 1.0
)

func (p Phase) String() string {
	switch p {
	case PhaseInhale:
		return "inhale"
	case PhaseHoldIn:
		return "hold_in"
	case PhaseExhale:
		return "exhale"
	case PhaseHoldOut:
		return "hold_out"
	default:
		return "unknown"
	}
}

// Pattern is a named set of phase durations in seconds. A zero duration
// marks the phase as skipped.
type Pattern struct {
	Name      string
	Durations [phaseCount]int
}

// Label renders the durations as "4-7-8-0".
func (p Pattern) Label() string {
	parts := make([]string, 0, phaseCount)
	for _, d := range p.Durations {
		parts = append(parts, fmt.Sprintf("%d", d))
	}
	return strings.Join(parts, "-")
}

// Presets returns the built-in patterns in display order.
func Presets() []Pattern {
	return []Pattern{
		{Name: "box", Durations: [phaseCount]int{4, 4, 4, 4}},
		{Name: "478", Durations: [phaseCount]int{4, 7, 8, 0}},
		{Name: "calm", Durations: [phaseCount]int{4, 2, 6, 0}},
	}
}

// PresetByName looks up a built-in pattern, case-insensitively.
func PresetByName(name string) (Pattern, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets() {
		if p.Name == want {
			return p, true
		}
	}
	return Pattern{}, false
}

// Snapshot is what a renderer needs for one frame.
type Snapshot struct {
	Pattern   Pattern
	Phase     Phase
	Elapsed   int
	Countdown int
	Scale     float64
	Cycles    int
}

// Pacer is the breathing state machine. The zero value is not useful; use
// NewPacer.
type Pacer struct {
	pattern Pattern
	index   int
	elapsed int
	cycles  int
}

// NewPacer starts a pacer at the beginning of pattern.
func NewPacer(pattern Pattern) *Pacer {
	return &Pacer{pattern: pattern}
}

// SetPattern switches patterns and restarts from the first phase, even when
// the pattern is the same one.
func (p *Pacer) SetPattern(pattern Pattern) {
	p.pattern = pattern
	p.index = 0
	p.elapsed = 0
	p.cycles = 0
}

// Tick advances the pacer by one second.
//
// Only the phase immediately after the one that finished is checked for a
// zero duration; if it is zero the cycle wraps to inhale. Two consecutive
// skipped phases are not collapsed.
func (p *Pacer) Tick() {
	p.elapsed++
	if p.elapsed < p.pattern.Durations[p.index] {
		return
	}
	next := p.index + 1
	if next >= phaseCount || p.pattern.Durations[next] == 0 {
		p.index = 0
		p.cycles++
	} else {
		p.index = next
	}
	p.elapsed = 0
}

func (p *Pacer) Pattern() Pattern { return p.pattern }
func (p *Pacer) Phase() Phase     { return Phase(p.index) }
func (p *Pacer) Elapsed() int     { return p.elapsed }
func (p *Pacer) Cycles() int      { return p.cycles }

// Countdown returns seconds left in the current phase.
func (p *Pacer) Countdown() int {
	left := p.pattern.Durations[p.index] - p.elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Scale returns the circle size for the current second: growing from 0.55 to
// 1.0 while inhaling, shrinking back while exhaling, full during holds.
func (p *Pacer) Scale() float64 {
	duration := p.pattern.Durations[p.index]
	if duration <= 0 {
		return maxScale
	}
	progress := float64(p.elapsed) / float64(duration)
	if progress > 1 {
		progress = 1
	}
	switch Phase(p.index) {
	case PhaseInhale:
		return minScale + (maxScale-minScale)*progress
	case PhaseExhale:
		return maxScale - (maxScale-minScale)*progress
	default:
		return maxScale
	}
}

// Snapshot captures the current frame.
func (p *Pacer) Snapshot() Snapshot {
	return Snapshot{
		Pattern:   p.pattern,
		Phase:     p.Phase(),
		Elapsed:   p.elapsed,
		Countdown: p.Countdown(),
		Scale:     p.Scale(),
		Cycles:    p.cycles,
	}
}

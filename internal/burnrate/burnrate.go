// Package burnrate accrues a monthly salary second by second.
package burnrate

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// HoursPerMonth is the assumed number of paid hours in a month.
const HoursPerMonth = 160

// PerSecond converts a monthly salary into a per-second rate.
func PerSecond(salary float64) float64 {
	if salary <= 0 {
		return 0
	}
	return salary / HoursPerMonth / 3600
}

// Accumulator tracks how much salary has accrued since Reference.
type Accumulator struct {
	Salary    float64
	Reference time.Time
}

// New starts an accumulator at now.
func New(salary float64, now time.Time) Accumulator {
	return Accumulator{Salary: sanitize(salary), Reference: now}
}

// SetSalary updates the salary and restarts accrual from now when the value
// changed. It reports whether a reset happened.
func (a *Accumulator) SetSalary(salary float64, now time.Time) bool {
	salary = sanitize(salary)
	if salary == a.Salary {
		return false
	}
	a.Salary = salary
	a.Reference = now
	return true
}

// Amount returns the accrued value at now.
func (a Accumulator) Amount(now time.Time) float64 {
	elapsed := now.Sub(a.Reference).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return PerSecond(a.Salary) * elapsed
}

// ParseSalary reads a free-form salary entry. Anything that is not a finite,
// non-negative number becomes 0.
func ParseSalary(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return sanitize(n)
}

func sanitize(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0
	}
	return n
}

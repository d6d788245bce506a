package burnrate

import (
	"math"
	"testing"
	"time"
)

func TestPerSecond(t *testing.T) {
	t.Parallel()

	got := PerSecond(576000)
	if math.Abs(got-1) > 1e-12 {
		t.Fatalf("PerSecond(576000) = %v, want 1", got)
	}
	if got := PerSecond(0); got != 0 {
		t.Fatalf("PerSecond(0) = %v, want 0", got)
	}
	if got := PerSecond(-10); got != 0 {
		t.Fatalf("PerSecond(-10) = %v, want 0", got)
	}
}

func TestAmountStartsAtZeroAfterSalaryChange(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	acc := New(120000, start)

	later := start.Add(90 * time.Second)
	if got := acc.Amount(later); got <= 0 {
		t.Fatalf("Amount() before edit = %v, want > 0", got)
	}

	if !acc.SetSalary(150000, later) {
		t.Fatal("SetSalary() = false, want true for a new value")
	}
	if got := acc.Amount(later); got != 0 {
		t.Fatalf("Amount() right after edit = %v, want 0", got)
	}

	prev := 0.0
	for i := 1; i <= 120; i++ {
		got := acc.Amount(later.Add(time.Duration(i) * time.Second))
		if got <= prev {
			t.Fatalf("Amount() at +%ds = %v, want > %v", i, got, prev)
		}
		prev = got
	}
}

func TestSetSalaryKeepsReferenceWhenUnchanged(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	acc := New(5000, start)
	if acc.SetSalary(5000, start.Add(time.Minute)) {
		t.Fatal("SetSalary() = true, want false for same value")
	}
	if !acc.Reference.Equal(start) {
		t.Fatalf("Reference = %v, want %v", acc.Reference, start)
	}
}

func TestAmountNeverNegative(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	acc := New(120000, start)
	if got := acc.Amount(start.Add(-time.Hour)); got != 0 {
		t.Fatalf("Amount() before reference = %v, want 0", got)
	}
}

func TestParseSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want float64
	}{
		{raw: "120000", want: 120000},
		{raw: "  5000.5 ", want: 5000.5},
		{raw: "", want: 0},
		{raw: "abc", want: 0},
		{raw: "-300", want: 0},
		{raw: "NaN", want: 0},
		{raw: "Inf", want: 0},
	}
	for _, tc := range tests {
		if got := ParseSalary(tc.raw); got != tc.want {
			t.Fatalf("ParseSalary(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

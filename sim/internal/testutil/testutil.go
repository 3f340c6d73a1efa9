// Package testutil provides shared test infrastructure for the simulator.
// It has no dependency on sim/ so that sim's own tests can import it.
package testutil

import (
	"math"
	"testing"
	"time"
)

// Monday is the fixed business date used across tests.
var Monday = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

// At returns Monday at hh:mm:ss.
func At(hh, mm, ss int) time.Time {
	return Monday.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertRoundRobin checks that assigned follows 1, 2, ..., c, 1, 2, ... exactly
// and that each counter's share lies in [floor(n/c), ceil(n/c)].
func AssertRoundRobin(t *testing.T, assigned []int, counters int) {
	t.Helper()
	counts := make(map[int]int, counters)
	for i, got := range assigned {
		if want := i%counters + 1; got != want {
			t.Fatalf("assignment %d: counter %d, want %d (cyclic order broken)", i, got, want)
		}
		counts[got]++
	}
	n := len(assigned)
	lo, hi := n/counters, (n+counters-1)/counters
	for c := 1; c <= counters; c++ {
		if counts[c] < lo || counts[c] > hi {
			t.Errorf("counter %d assigned %d times, want in [%d, %d]", c, counts[c], lo, hi)
		}
	}
}

// Tracks run-wide aggregates: customers served, total wait, drops and
// persistence failures.

package sim

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// RunMetrics aggregates statistics about one simulation run
// for final reporting.
type RunMetrics struct {
	RunID    string // uuid assigned when the run starts
	Counters int
	OpenAt   time.Time
	CloseAt  time.Time

	CustomersServed  int     // successfully persisted records
	TotalWaitMinutes float64 // sum of WaitMinutes over persisted records

	Processed       int // customers resolved, persisted or not
	PersistFailures int // resolved customers whose Append failed
	Dropped         int // customers discarded by the cutoff

	CounterServed map[int]int // counter number -> persisted customers
}

// NewMetrics creates an empty RunMetrics.
func NewMetrics() *RunMetrics {
	return &RunMetrics{CounterServed: make(map[int]int)}
}

// AverageWaitMinutes returns TotalWaitMinutes / CustomersServed, or 0 when
// nothing was served.
func (m *RunMetrics) AverageWaitMinutes() float64 {
	if m.CustomersServed == 0 {
		return 0
	}
	return m.TotalWaitMinutes / float64(m.CustomersServed)
}

// Print writes the aggregated metrics at the end of the run.
func (m *RunMetrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Run ID               : %s\n", m.RunID)
	fmt.Fprintf(w, "Counters             : %d\n", m.Counters)
	fmt.Fprintf(w, "Business Day         : %s - %s\n", m.OpenAt.Format(TimestampLayout), m.CloseAt.Format(TimestampLayout))
	fmt.Fprintf(w, "Customers Served     : %d\n", m.CustomersServed)
	fmt.Fprintf(w, "Customers Processed  : %d\n", m.Processed)
	fmt.Fprintf(w, "Customers Dropped    : %d\n", m.Dropped)
	if m.PersistFailures > 0 {
		fmt.Fprintf(w, "Persist Failures     : %d\n", m.PersistFailures)
	}
	if m.CustomersServed > 0 {
		fmt.Fprintf(w, "Total Wait           : %.2f min\n", m.TotalWaitMinutes)
		fmt.Fprintf(w, "Average Wait         : %.2f min\n", m.AverageWaitMinutes())
	}
	counters := make([]int, 0, len(m.CounterServed))
	for c := range m.CounterServed {
		counters = append(counters, c)
	}
	sort.Ints(counters)
	for _, c := range counters {
		fmt.Fprintf(w, "  Counter %-2d served  : %d\n", c, m.CounterServed[c])
	}
}

package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions      int
	ResolvedCount       int
	DroppedCount        int
	UniqueCounters      int
	MaxImbalance        int         // max - min assignments across counters that received any
	CounterDistribution map[int]int // counter number → count of customers assigned
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		CounterDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Assignments)
	for _, a := range st.Assignments {
		summary.CounterDistribution[a.Counter]++
		switch a.Outcome {
		case OutcomeResolved:
			summary.ResolvedCount++
		case OutcomeDropped:
			summary.DroppedCount++
		}
	}

	summary.UniqueCounters = len(summary.CounterDistribution)
	if summary.UniqueCounters > 0 {
		lo, hi := -1, 0
		for _, n := range summary.CounterDistribution {
			if lo < 0 || n < lo {
				lo = n
			}
			if n > hi {
				hi = n
			}
		}
		summary.MaxImbalance = hi - lo
	}

	return summary
}

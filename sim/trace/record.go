// Package trace provides decision-trace recording for counter assignment analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "time"

// Outcome is the terminal state of a traced customer.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeDropped  Outcome = "dropped"
)

// AssignmentRecord captures a single counter assignment and its outcome.
type AssignmentRecord struct {
	Seq           int // 0-based assignment sequence within the run
	CustomerID    int
	Counter       int
	ArrivalTime   time.Time
	DepartureTime time.Time // drawn resolution time; for dropped customers it lies past the cutoff
	Outcome       Outcome
	Reason        string
}

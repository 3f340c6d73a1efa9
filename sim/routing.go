package sim

import "fmt"

// CounterAssignment is the routing decision for one customer.
type CounterAssignment struct {
	Counter int    // Counter number in 1..C
	Reason  string // Human-readable explanation
}

// RoundRobin assigns customers to counters 1..C in strict cyclic order.
// The cursor never takes the value 0.
type RoundRobin struct {
	counters int
	next     int
}

// NewRoundRobin creates a cursor over counters 1..counters, starting at 1.
func NewRoundRobin(counters int) *RoundRobin {
	if counters <= 0 {
		panic(fmt.Sprintf("NewRoundRobin: counters must be positive, got %d", counters))
	}
	return &RoundRobin{counters: counters, next: 1}
}

// Assign returns the current counter and advances the cursor.
func (rr *RoundRobin) Assign() CounterAssignment {
	target := rr.next
	rr.next = (rr.next % rr.counters) + 1
	return CounterAssignment{
		Counter: target,
		Reason:  fmt.Sprintf("round-robin[%d/%d]", target, rr.counters),
	}
}

// Counters returns the number of counters being cycled.
func (rr *RoundRobin) Counters() int {
	return rr.counters
}

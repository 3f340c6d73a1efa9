// Package staffing recommends the minimum number of counters that keeps the
// average wait under a ceiling without exceeding a budget.
//
// The model is a single-variable integer linear program:
//
//	minimize   x
//	subject to base_wait <= max_avg_wait * x
//	           cost_per_counter * x <= budget
//	           x >= 1, x integer
//
// The first constraint is the linear form of base_wait / x <= max_avg_wait.
package staffing

import (
	"errors"
	"fmt"
	"math"

	"github.com/postoffice-sim/postoffice-sim/sim"
)

// ErrInfeasible means no counter count satisfies both the wait ceiling and
// the budget. It is a normal negative result, not a failure.
var ErrInfeasible = errors.New("staffing scenario is infeasible")

// Scenario is the four-parameter optimizer input.
type Scenario struct {
	BaseWait       float64 // average wait with one counter, minutes
	MaxAvgWait     float64 // acceptable average wait, minutes
	Budget         float64 // total budget, currency units
	CostPerCounter float64 // cost of one counter, currency units
}

// Recommendation is the optimizer output.
type Recommendation struct {
	Counters  int
	AvgWait   float64 // BaseWait / Counters
	TotalCost float64 // CostPerCounter * Counters
}

func (r Recommendation) String() string {
	return fmt.Sprintf("counters=%d avg_wait=%.2fmin total_cost=%.2f", r.Counters, r.AvgWait, r.TotalCost)
}

// Validate rejects non-positive or non-finite inputs.
func (s Scenario) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"base wait", s.BaseWait},
		{"max average wait", s.MaxAvgWait},
		{"budget", s.Budget},
		{"cost per counter", s.CostPerCounter},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return sim.NewConfigError(f.name, "must be finite, got %g", f.v)
		}
		if f.v <= 0 {
			return sim.NewConfigError(f.name, "must be positive, got %g", f.v)
		}
	}
	return nil
}

// maxCounters caps every counter count so float64 and int conversions stay exact.
const maxCounters = math.MaxInt32

// affordable returns the largest x with WithinBudget(x), capped at maxCounters.
// Returns 0 when not even one counter fits.
func (s Scenario) affordable() int {
	a := int(math.Min(math.Floor(s.Budget/s.CostPerCounter), maxCounters))
	// correct float rounding of the quotient in either direction
	for a > 0 && !s.WithinBudget(a) {
		a--
	}
	for a < maxCounters && s.WithinBudget(a+1) {
		a++
	}
	return a
}

// MeetsWait reports whether x counters satisfy base_wait <= max_avg_wait * x.
func (s Scenario) MeetsWait(x int) bool {
	return s.BaseWait <= s.MaxAvgWait*float64(x)
}

// WithinBudget reports whether x counters satisfy cost_per_counter * x <= budget.
func (s Scenario) WithinBudget(x int) bool {
	return s.CostPerCounter*float64(x) <= s.Budget
}

// Candidate describes one counter count against both constraints.
type Candidate struct {
	Recommendation
	MeetsWait    bool
	WithinBudget bool
}

// Evaluate scores x counters without optimizing.
func (s Scenario) Evaluate(x int) Candidate {
	return Candidate{
		Recommendation: s.recommendation(x),
		MeetsWait:      s.MeetsWait(x),
		WithinBudget:   s.WithinBudget(x),
	}
}

func (s Scenario) recommendation(x int) Recommendation {
	return Recommendation{
		Counters:  x,
		AvgWait:   s.BaseWait / float64(x),
		TotalCost: s.CostPerCounter * float64(x),
	}
}

// Recommend solves s with the default BranchAndBound solver.
func Recommend(s Scenario) (Recommendation, error) {
	return RecommendWith(NewBranchAndBound(), s)
}

// RecommendWith solves s with solver.
//
// Non-positive inputs return a sim.ConfigError. A budget below the cost of a
// single counter returns an error matching both ErrInfeasible and
// sim.ErrConfiguration.
func RecommendWith(solver Solver, s Scenario) (Recommendation, error) {
	if err := s.Validate(); err != nil {
		return Recommendation{}, err
	}
	if s.CostPerCounter > s.Budget {
		return Recommendation{}, fmt.Errorf("%w: %w", ErrInfeasible,
			sim.NewConfigError("budget", "%g is below the cost of one counter %g", s.Budget, s.CostPerCounter))
	}
	x, err := solver.Solve(s)
	if err != nil {
		return Recommendation{}, err
	}
	if x < 1 || !s.MeetsWait(x) || !s.WithinBudget(x) {
		return Recommendation{}, fmt.Errorf("%s solver returned %d counters, which violates the constraints", solver.Name(), x)
	}
	return s.recommendation(x), nil
}

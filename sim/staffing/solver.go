package staffing

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Solver finds the smallest feasible integer counter count for a scenario.
// Solve returns ErrInfeasible when no count satisfies both constraints.
type Solver interface {
	Solve(s Scenario) (int, error)
	Name() string
}

// Solver names accepted by NewSolver.
const (
	SolverEnumeration    = "enumeration"
	SolverBranchAndBound = "branch-and-bound"
)

var validSolvers = map[string]bool{
	SolverEnumeration:    true,
	SolverBranchAndBound: true,
	"":                   true, // empty defaults to branch-and-bound
}

// IsValidSolver returns true if name is a recognized solver.
func IsValidSolver(name string) bool {
	return validSolvers[name]
}

// NewSolver creates a solver by name.
func NewSolver(name string) (Solver, error) {
	switch name {
	case SolverEnumeration:
		return Enumeration{}, nil
	case SolverBranchAndBound, "":
		return NewBranchAndBound(), nil
	default:
		return nil, fmt.Errorf("unknown solver %q; valid: %s, %s", name, SolverEnumeration, SolverBranchAndBound)
	}
}

// Enumeration scans candidate counts upward from the wait bound.
// Only the first affordable candidate needs checking because cost grows with x.
type Enumeration struct{}

func (Enumeration) Name() string { return SolverEnumeration }

func (Enumeration) Solve(s Scenario) (int, error) {
	afford := s.affordable()
	if afford < 1 || !s.MeetsWait(afford) {
		return 0, fmt.Errorf("%w: the wait ceiling needs more counters than the budget covers (%d)",
			ErrInfeasible, afford)
	}
	x := max(1, int(math.Min(math.Ceil(s.BaseWait/s.MaxAvgWait), float64(afford))))
	// correct float rounding of the ceiling in either direction
	for x > 1 && s.MeetsWait(x-1) {
		x--
	}
	for !s.MeetsWait(x) {
		x++
	}
	return x, nil
}

// BranchAndBound solves LP relaxations with the simplex method and branches
// on a fractional counter count.
type BranchAndBound struct {
	Tol      float64 // simplex tolerance, and relative integrality tolerance
	MaxNodes int     // search limit
}

// NewBranchAndBound returns a solver with default tolerances.
func NewBranchAndBound() BranchAndBound {
	return BranchAndBound{Tol: 1e-9, MaxNodes: 64}
}

func (BranchAndBound) Name() string { return SolverBranchAndBound }

// node bounds x to [lo, hi].
type node struct {
	lo, hi int
}

func (b BranchAndBound) Solve(s Scenario) (int, error) {
	afford := s.affordable()
	if afford < 1 {
		return 0, ErrInfeasible
	}
	best := 0
	stack := []node{{lo: 1, hi: afford}}
	for visited := 0; len(stack) > 0; visited++ {
		if visited >= b.MaxNodes {
			return 0, fmt.Errorf("branch and bound: node limit %d reached", b.MaxNodes)
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.lo > n.hi {
			continue
		}

		x, err := b.relax(s, n)
		if errors.Is(err, lp.ErrInfeasible) {
			logrus.Debugf("branch and bound: node [%d, %d] infeasible", n.lo, n.hi)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("branch and bound: relaxation [%d, %d]: %w", n.lo, n.hi, err)
		}
		if best > 0 && x >= float64(best)-b.Tol {
			continue
		}

		if r := math.Round(x); math.Abs(x-r) <= b.Tol*math.Max(1, math.Abs(x)) {
			c := min(max(int(r), n.lo), n.hi)
			if !s.MeetsWait(c) {
				// every count at or below c misses the ceiling
				stack = append(stack, node{lo: c + 1, hi: n.hi})
				continue
			}
			for c > n.lo && s.MeetsWait(c-1) {
				c--
			}
			best = c
			logrus.Debugf("branch and bound: incumbent %d", best)
			continue
		}
		down := int(math.Floor(x))
		// push the up branch first so the down branch is explored first
		stack = append(stack, node{lo: down + 1, hi: n.hi})
		if down >= n.lo {
			stack = append(stack, node{lo: n.lo, hi: down})
		}
	}
	if best == 0 {
		return 0, ErrInfeasible
	}
	return best, nil
}

// relax solves min x over the continuous relaxation of s bounded by n.
// The budget constraint is already folded into n.hi, and the wait row is
// divided through by max_avg_wait, so every coefficient is 1 or -1.
// Standard form columns: x, then one slack per row.
//
//	x - s1           = base / max_avg
//	x      - s2      = lo
//	x           + s3 = min(hi, ceil(base / max_avg) + 1)
//
// The upper bound is clamped just above the wait bound; the optimum is
// max(lo, base/max_avg) either way and the rows stay on one scale.
func (b BranchAndBound) relax(s Scenario, n node) (x float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simplex: %v", r)
		}
	}()

	need := s.BaseWait / s.MaxAvgWait
	if need > float64(n.hi)*(1+b.Tol) {
		// the wait bound alone already exceeds the node's upper bound
		return 0, lp.ErrInfeasible
	}
	if n.lo == n.hi {
		// a single feasible point needs no simplex
		return float64(n.lo), nil
	}
	hi := math.Min(float64(n.hi), math.Max(math.Ceil(need), float64(n.lo))+1)
	rhs := []float64{need, float64(n.lo), hi}
	slack := []float64{-1, -1, 1}

	m := len(rhs)
	A := mat.NewDense(m, 1+m, nil)
	for i := range rhs {
		A.Set(i, 0, 1)
		A.Set(i, 1+i, slack[i])
	}
	c := make([]float64, 1+m)
	c[0] = 1

	_, sol, err := lp.Simplex(c, A, rhs, b.Tol, nil)
	if err != nil {
		return 0, err
	}
	return sol[0], nil
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postoffice-sim/postoffice-sim/sim"
	"github.com/postoffice-sim/postoffice-sim/sim/staffing"
)

func TestRunOptimize_FeasibleScenarioPrintsRecommendation(t *testing.T) {
	// GIVEN base 100, ceiling 15, budget 1500, cost 200
	var buf bytes.Buffer
	s := staffing.Scenario{BaseWait: 100, MaxAvgWait: 15, Budget: 1500, CostPerCounter: 200}

	// WHEN optimized with each solver
	for _, name := range []string{staffing.SolverEnumeration, staffing.SolverBranchAndBound} {
		buf.Reset()
		require.NoError(t, runOptimize(&buf, name, s, 0))

		// THEN 7 counters at 14.29 min cost 1400
		out := buf.String()
		assert.Contains(t, out, "Recommended counters : 7", name)
		assert.Contains(t, out, "Average wait         : 14.29 min", name)
		assert.Contains(t, out, "Total cost           : 1400.00", name)
	}
}

func TestRunOptimize_InfeasibleIsReportedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	s := staffing.Scenario{BaseWait: 100, MaxAvgWait: 15, Budget: 1000, CostPerCounter: 200}

	require.NoError(t, runOptimize(&buf, "", s, 0))
	assert.Contains(t, buf.String(), "Infeasible")
}

func TestRunOptimize_BudgetBelowOneCounterIsInfeasible(t *testing.T) {
	var buf bytes.Buffer
	s := staffing.Scenario{BaseWait: 50, MaxAvgWait: 50, Budget: 100, CostPerCounter: 200}

	require.NoError(t, runOptimize(&buf, "", s, 0))
	assert.Contains(t, buf.String(), "Infeasible")
}

func TestRunOptimize_InvalidInputIsError(t *testing.T) {
	var buf bytes.Buffer
	err := runOptimize(&buf, "", staffing.Scenario{BaseWait: 0, MaxAvgWait: 15, Budget: 1500, CostPerCounter: 200}, 0)
	assert.ErrorIs(t, err, sim.ErrConfiguration)

	err = runOptimize(&buf, "simplex", staffing.Scenario{BaseWait: 100, MaxAvgWait: 15, Budget: 1500, CostPerCounter: 200}, 0)
	assert.Error(t, err)
}

func TestRunOptimize_TableListsEachCount(t *testing.T) {
	var buf bytes.Buffer
	s := staffing.Scenario{BaseWait: 100, MaxAvgWait: 15, Budget: 1500, CostPerCounter: 200}

	require.NoError(t, runOptimize(&buf, "", s, 8))

	out := buf.String()
	assert.Contains(t, out, "meets_wait")
	// 7 counters: 14.29 min, 1400, both constraints hold
	assert.Contains(t, out, "       7     14.29     1400.00        true           true")
	// 8 counters break the budget
	assert.Contains(t, out, "       8     12.50     1600.00        true          false")
}

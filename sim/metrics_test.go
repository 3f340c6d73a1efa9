package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMetrics_AverageWait_ZeroWhenNothingServed(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 0.0, m.AverageWaitMinutes())

	m.CustomersServed = 4
	m.TotalWaitMinutes = 80
	assert.InDelta(t, 20.0, m.AverageWaitMinutes(), 1e-9)
}

func TestRunMetrics_Print_IncludesAggregates(t *testing.T) {
	// GIVEN a metrics struct with served customers and a failure
	m := NewMetrics()
	m.RunID = "run-1"
	m.Counters = 2
	m.CustomersServed = 3
	m.Processed = 4
	m.PersistFailures = 1
	m.Dropped = 7
	m.TotalWaitMinutes = 45
	m.CounterServed[1] = 2
	m.CounterServed[2] = 1

	// WHEN printed
	var buf bytes.Buffer
	m.Print(&buf)
	out := buf.String()

	// THEN every aggregate appears
	assert.Contains(t, out, "Simulation Metrics")
	assert.Contains(t, out, "Customers Served     : 3")
	assert.Contains(t, out, "Customers Dropped    : 7")
	assert.Contains(t, out, "Persist Failures     : 1")
	assert.Contains(t, out, "Average Wait         : 15.00 min")
	assert.Contains(t, out, "Counter 1  served  : 2")
}

package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postoffice-sim/postoffice-sim/sim"
	"github.com/postoffice-sim/postoffice-sim/sim/trace"
	"github.com/postoffice-sim/postoffice-sim/sim/workload"
)

func testDaySpec(counters, customers int) *workload.DaySpec {
	spec := workload.DefaultDaySpec()
	spec.Date = "2024-05-06"
	spec.Counters = counters
	spec.Customers = customers
	return spec
}

func TestRunDay_PersistsEveryServedCustomerAndPrintsMetrics(t *testing.T) {
	// GIVEN 200 uniform arrivals over three counters and an in-memory sink
	spec := testDaySpec(3, 200)
	sink := sim.NewMemorySink()
	var out bytes.Buffer

	// WHEN the day runs with decision tracing
	result, err := runDay(context.Background(), &out, spec, sink,
		dayOptions{Now: time.Now(), Trace: trace.TraceLevelDecisions})
	require.NoError(t, err)

	// THEN every customer is served before close and persisted
	assert.True(t, result.Completed)
	assert.Equal(t, 200, result.Persisted)
	assert.Equal(t, 200, sink.Len())
	assert.Contains(t, out.String(), "Customers Served     : 200")
	assert.Contains(t, out.String(), "Counters             : 3")
	assert.Contains(t, out.String(), "Decisions            : 200")
}

func TestRunDay_EarlyCloseDropsTheRest(t *testing.T) {
	// GIVEN a one-hour day with more arrivals than it can hold
	spec := testDaySpec(2, 200)
	spec.Close = "09:00:00"
	sink := sim.NewMemorySink()
	var out bytes.Buffer

	// WHEN the day runs
	result, err := runDay(context.Background(), &out, spec, sink, dayOptions{Now: time.Now()})
	require.NoError(t, err)

	// THEN the run stops at the cutoff and nothing persisted departs after it
	assert.False(t, result.Completed)
	assert.Positive(t, result.Dropped)
	assert.Equal(t, 200, result.Persisted+result.Dropped)
	records, err := sink.Records(context.Background())
	require.NoError(t, err)
	cutoff := time.Date(2024, 5, 6, 9, 0, 0, 0, time.Local)
	for _, r := range records {
		assert.False(t, r.DepartureTime.After(cutoff), "customer %d departs %s", r.CustomerID, r.DepartureTime)
	}
	assert.NotContains(t, out.String(), "Assignment Trace")
}

func TestRunDay_InvalidCountsLeaveSinkUntouched(t *testing.T) {
	tests := []struct {
		name      string
		counters  int
		customers int
	}{
		{"zero counters", 0, 200},
		{"zero customers", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a sink holding a row from an earlier run
			sink := sim.NewMemorySink()
			require.NoError(t, sink.Append(context.Background(), sim.Record{CustomerID: 1}))

			// WHEN the day is misconfigured
			_, err := runDay(context.Background(), &bytes.Buffer{}, testDaySpec(tt.counters, tt.customers), sink,
				dayOptions{Now: time.Now()})

			// THEN a configuration error comes back and the old row survives
			assert.ErrorIs(t, err, sim.ErrConfiguration)
			assert.Equal(t, 1, sink.Len())
		})
	}
}

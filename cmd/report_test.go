package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postoffice-sim/postoffice-sim/sim"
)

func day(h, m int) time.Time {
	return time.Date(2024, 5, 6, h, m, 0, 0, time.UTC)
}

func TestWriteReport_SectionsAndBuckets(t *testing.T) {
	// GIVEN three records across two half-hour buckets
	records := []sim.Record{
		{CustomerID: 1, Counter: 1, WaitMinutes: 10, ArrivalTime: day(8, 0), DepartureTime: day(8, 10)},
		{CustomerID: 2, Counter: 2, WaitMinutes: 20, ArrivalTime: day(8, 10), DepartureTime: day(8, 30)},
		{CustomerID: 3, Counter: 1, WaitMinutes: 30, ArrivalTime: day(8, 40), DepartureTime: day(9, 10)},
	}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, records, 30*time.Minute))

	out := buf.String()
	assert.Contains(t, out, "Records              : 3")
	assert.Contains(t, out, "2024-05-06 08:00:00   15.00  (n=2)")
	assert.Contains(t, out, "2024-05-06 08:30:00   30.00  (n=1)")
	assert.Contains(t, out, "08:00  3")
	assert.Contains(t, out, "Counter 1  served 2, mean wait 20.00 min")
}

func TestWriteReport_EmptyRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, nil, 30*time.Minute))
	assert.Contains(t, buf.String(), "Records              : 0")
}

func TestWriteReport_BadBucket(t *testing.T) {
	var buf bytes.Buffer
	records := []sim.Record{{ArrivalTime: day(8, 0)}}
	assert.Error(t, writeReport(&buf, records, 0))
}

package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postoffice-sim/postoffice-sim/sim"
	"github.com/postoffice-sim/postoffice-sim/sim/internal/testutil"
)

func rec(counter int, arrival time.Time, wait float64) sim.Record {
	return sim.Record{
		Counter:       counter,
		WaitMinutes:   wait,
		ArrivalTime:   arrival,
		DepartureTime: arrival.Add(time.Duration(wait * float64(time.Minute))),
	}
}

func TestResample_ThirtyMinuteBuckets(t *testing.T) {
	// GIVEN records at 08:05, 08:20, 09:10 (08:30 bucket empty)
	records := []sim.Record{
		rec(1, testutil.At(8, 5, 0), 10),
		rec(2, testutil.At(8, 20, 0), 20),
		rec(1, testutil.At(9, 10, 0), 30),
	}

	// WHEN resampled at 30 minutes
	buckets, err := Resample(records, DefaultBucket)
	require.NoError(t, err)

	// THEN three contiguous buckets cover 08:00-09:30
	require.Len(t, buckets, 3)
	assert.Equal(t, testutil.At(8, 0, 0), buckets[0].Start)
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 15.0, buckets[0].MeanWait, 1e-9)
	assert.Equal(t, 20.0, buckets[0].MaxWait)

	assert.Equal(t, testutil.At(8, 30, 0), buckets[1].Start)
	assert.Equal(t, 0, buckets[1].Count)
	assert.True(t, math.IsNaN(buckets[1].MeanWait))

	assert.Equal(t, testutil.At(9, 0, 0), buckets[2].Start)
	assert.InDelta(t, 30.0, buckets[2].MeanWait, 1e-9)
}

func TestResample_EmptyAndBadWidth(t *testing.T) {
	buckets, err := Resample(nil, DefaultBucket)
	require.NoError(t, err)
	assert.Empty(t, buckets)

	_, err = Resample([]sim.Record{rec(1, testutil.At(8, 0, 0), 1)}, 0)
	assert.Error(t, err)
}

func TestHourlyArrivals_CountsByHour(t *testing.T) {
	records := []sim.Record{
		rec(1, testutil.At(8, 0, 0), 10),
		rec(1, testutil.At(8, 59, 59), 10),
		rec(1, testutil.At(13, 0, 0), 10),
	}
	assert.Equal(t, map[int]int{8: 2, 13: 1}, HourlyArrivals(records))
}

func TestCounters_OrderedWithMeanWait(t *testing.T) {
	records := []sim.Record{
		rec(2, testutil.At(8, 0, 0), 10),
		rec(1, testutil.At(8, 1, 0), 12),
		rec(2, testutil.At(8, 2, 0), 20),
	}
	got := Counters(records)
	require.Len(t, got, 2)
	assert.Equal(t, CounterLoad{Counter: 1, Served: 1, MeanWait: 12}, got[0])
	assert.Equal(t, 2, got[1].Served)
	assert.InDelta(t, 15.0, got[1].MeanWait, 1e-9)
}

func TestSummarize_Statistics(t *testing.T) {
	// GIVEN waits 1..10 minutes
	var records []sim.Record
	for i := 10; i >= 1; i-- {
		records = append(records, rec(1, testutil.At(8, i, 0), float64(i)))
	}

	s := Summarize(records)

	assert.Equal(t, 10, s.Count)
	assert.InDelta(t, 5.5, s.Mean, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.Equal(t, 5.0, s.P50)
	assert.Equal(t, 9.0, s.P90)
	assert.Equal(t, 10.0, s.P95)
	testutil.AssertFloat64Equal(t, "stddev", 3.0277, s.StdDev, 1e-3)
}

func TestSummarize_EmptyAndSingle(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	s := Summarize([]sim.Record{rec(1, testutil.At(8, 0, 0), 12)})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 12.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
}

type failingReader struct{}

func (failingReader) Records(context.Context) ([]sim.Record, error) {
	return nil, errors.New("boom")
}

func TestLoad_ReadsAndSummarizes(t *testing.T) {
	ctx := context.Background()
	sink := sim.NewMemorySink()
	require.NoError(t, sink.Append(ctx, rec(1, testutil.At(8, 0, 0), 10)))
	require.NoError(t, sink.Append(ctx, rec(2, testutil.At(8, 1, 0), 20)))

	records, summary, err := Load(ctx, sink)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.InDelta(t, 15.0, summary.Mean, 1e-9)

	_, _, err = Load(ctx, failingReader{})
	assert.ErrorContains(t, err, "boom")
}

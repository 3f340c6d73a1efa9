// Package analytics turns persisted completed-service records into
// time-bucketed averages, hourly counts and summary statistics.
// It only reads records; the simulator never calls it.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/postoffice-sim/postoffice-sim/sim"
)

// DefaultBucket matches the 30-minute resampling of the wait-time chart.
const DefaultBucket = 30 * time.Minute

// Bucket aggregates the records whose arrival falls in [Start, Start+width).
type Bucket struct {
	Start       time.Time
	Count       int
	MeanWait    float64 // NaN when Count == 0
	MaxWait     float64
	meanWaitSum float64
}

// Resample groups records by arrival time into contiguous buckets of width,
// aligned to multiples of width since the first record's day start. Empty
// buckets between the first and last record are included with NaN means.
func Resample(records []sim.Record, width time.Duration) ([]Bucket, error) {
	if width <= 0 {
		return nil, fmt.Errorf("bucket width must be positive, got %s", width)
	}
	if len(records) == 0 {
		return nil, nil
	}

	first, last := records[0].ArrivalTime, records[0].ArrivalTime
	for _, r := range records[1:] {
		if r.ArrivalTime.Before(first) {
			first = r.ArrivalTime
		}
		if r.ArrivalTime.After(last) {
			last = r.ArrivalTime
		}
	}
	y, m, d := first.Date()
	origin := time.Date(y, m, d, 0, 0, 0, 0, first.Location())
	startIdx := int(first.Sub(origin) / width)
	endIdx := int(last.Sub(origin) / width)

	buckets := make([]Bucket, endIdx-startIdx+1)
	for i := range buckets {
		buckets[i].Start = origin.Add(time.Duration(startIdx+i) * width)
	}
	for _, r := range records {
		b := &buckets[int(r.ArrivalTime.Sub(origin)/width)-startIdx]
		b.Count++
		b.meanWaitSum += r.WaitMinutes
		b.MaxWait = math.Max(b.MaxWait, r.WaitMinutes)
	}
	for i := range buckets {
		if buckets[i].Count == 0 {
			buckets[i].MeanWait = math.NaN()
			continue
		}
		buckets[i].MeanWait = buckets[i].meanWaitSum / float64(buckets[i].Count)
	}
	return buckets, nil
}

// HourlyArrivals counts records by arrival hour of day.
func HourlyArrivals(records []sim.Record) map[int]int {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.ArrivalTime.Hour()]++
	}
	return counts
}

// CounterLoad counts records and mean wait per counter.
type CounterLoad struct {
	Counter  int
	Served   int
	MeanWait float64
}

// Counters returns per-counter load ordered by counter number.
func Counters(records []sim.Record) []CounterLoad {
	byCounter := make(map[int]*CounterLoad)
	for _, r := range records {
		cl, ok := byCounter[r.Counter]
		if !ok {
			cl = &CounterLoad{Counter: r.Counter}
			byCounter[r.Counter] = cl
		}
		cl.Served++
		cl.MeanWait += r.WaitMinutes
	}
	out := make([]CounterLoad, 0, len(byCounter))
	for _, cl := range byCounter {
		cl.MeanWait /= float64(cl.Served)
		out = append(out, *cl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Counter < out[j].Counter })
	return out
}

// Summary holds wait-time statistics over all records, in minutes.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // 0 when Count < 2
	Min    float64
	Max    float64
	P50    float64
	P90    float64
	P95    float64
}

// Summarize computes wait statistics. An empty input yields a zero Summary.
func Summarize(records []sim.Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	waits := make([]float64, len(records))
	for i, r := range records {
		waits[i] = r.WaitMinutes
	}
	sort.Float64s(waits)

	s := Summary{
		Count: len(waits),
		Mean:  stat.Mean(waits, nil),
		Min:   waits[0],
		Max:   waits[len(waits)-1],
		P50:   stat.Quantile(0.50, stat.Empirical, waits, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, waits, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, waits, nil),
	}
	if len(waits) > 1 {
		s.StdDev = stat.StdDev(waits, nil)
	}
	return s
}

// Load reads every record from reader and summarizes it.
func Load(ctx context.Context, reader sim.RecordReader) ([]sim.Record, Summary, error) {
	records, err := reader.Records(ctx)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("reading records: %w", err)
	}
	return records, Summarize(records), nil
}

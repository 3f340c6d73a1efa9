package workload

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/postoffice-sim/postoffice-sim/sim"
)

// ArrivalMode selects how arrival timestamps are laid out over the day.
type ArrivalMode string

const (
	// ModeUniform spaces arrivals sequentially by a uniform gap from the day start.
	ModeUniform ArrivalMode = "uniform"
	// ModeDistributed fills hourly day segments with per-bucket counts.
	ModeDistributed ArrivalMode = "distributed"
)

var validModes = map[ArrivalMode]bool{ModeUniform: true, ModeDistributed: true, "": true}

// GapRange bounds a uniform inter-arrival gap.
type GapRange struct {
	Min time.Duration
	Max time.Duration
}

// Default gaps.
var (
	DefaultUniformGap = GapRange{Min: 30 * time.Second, Max: 120 * time.Second}
	DefaultBucketGap  = GapRange{Min: 1 * time.Second, Max: 5 * time.Second}
)

func (g GapRange) draw(rng *rand.Rand) time.Duration {
	return g.Min + time.Duration(rng.Float64()*float64(g.Max-g.Min))
}

func (g GapRange) validate(field string) error {
	if g.Min < 0 || g.Max < g.Min {
		return sim.NewConfigError(field, "invalid gap range [%s, %s]", g.Min, g.Max)
	}
	return nil
}

// Segment is one named hour-bucket of the business day.
type Segment struct {
	Name  string
	Start time.Time
}

// DaySegments returns one segment per hour in [open, close), named by the
// bucket's starting clock time ("08:00", "09:00", ...).
func DaySegments(open, closeAt time.Time) []Segment {
	var segs []Segment
	for t := open; t.Before(closeAt); t = t.Add(time.Hour) {
		segs = append(segs, Segment{Name: t.Format("15:04"), Start: t})
	}
	return segs
}

// ArrivalConfig parameterizes Generate.
type ArrivalConfig struct {
	Customers int
	Start     time.Time
	Mode      ArrivalMode

	// Segments is the ordered day-segment list for ModeDistributed.
	Segments []Segment
	// Distribution optionally fixes bucket counts by segment name; unnamed
	// segments are drawn.
	// The final segment's entry is ignored: it always receives the remainder.
	Distribution map[string]int

	UniformGap GapRange // zero value means DefaultUniformGap
	BucketGap  GapRange // zero value means DefaultBucketGap
}

// Validate rejects configurations that cannot produce exactly Customers arrivals.
func (c *ArrivalConfig) Validate() error {
	if c.Customers <= 0 {
		return sim.NewConfigError("customers", "must be positive, got %d", c.Customers)
	}
	if c.Start.IsZero() {
		return sim.NewConfigError("start", "arrival start time is required")
	}
	if !validModes[c.Mode] {
		return sim.NewConfigError("mode", "unknown arrival mode %q; valid: uniform, distributed", c.Mode)
	}
	if err := c.uniformGap().validate("uniform gap"); err != nil {
		return err
	}
	if err := c.bucketGap().validate("bucket gap"); err != nil {
		return err
	}
	if c.Mode != ModeDistributed {
		return nil
	}
	if len(c.Segments) == 0 {
		return sim.NewConfigError("segments", "distributed mode needs at least one day segment")
	}
	known := make(map[string]bool, len(c.Segments))
	for _, s := range c.Segments {
		known[s.Name] = true
	}
	for name, n := range c.Distribution {
		if !known[name] {
			return sim.NewConfigError("distribution", "unknown hour bucket %q", name)
		}
		if n < 0 {
			return sim.NewConfigError("distribution", "bucket %q count must be non-negative, got %d", name, n)
		}
	}
	return nil
}

func (c *ArrivalConfig) uniformGap() GapRange {
	if c.UniformGap == (GapRange{}) {
		return DefaultUniformGap
	}
	return c.UniformGap
}

func (c *ArrivalConfig) bucketGap() GapRange {
	if c.BucketGap == (GapRange{}) {
		return DefaultBucketGap
	}
	return c.BucketGap
}

// Generate produces exactly cfg.Customers arrivals with non-decreasing
// timestamps. Purposes, IDs, gaps and bucket draws use the arrivals stream;
// estimates use the service stream.
func Generate(cfg ArrivalConfig, rng *sim.PartitionedRNG) ([]*sim.Customer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arrival config: %w", err)
	}
	arrivals := rng.ForSubsystem(sim.SubsystemArrivals)
	model := sim.NewServiceTimeModel(rng.ForSubsystem(sim.SubsystemService))
	customers := make([]*sim.Customer, 0, cfg.Customers)

	newCustomer := func(at time.Time) *sim.Customer {
		id := 1 + arrivals.Intn(sim.MaxCustomerID)
		purpose := sim.Purposes[arrivals.Intn(len(sim.Purposes))]
		return sim.NewCustomer(id, purpose, model.Estimate(purpose), at)
	}

	if cfg.Mode != ModeDistributed {
		gap := cfg.uniformGap()
		current := cfg.Start
		for i := 0; i < cfg.Customers; i++ {
			customers = append(customers, newCustomer(current))
			current = current.Add(gap.draw(arrivals))
		}
		return customers, nil
	}

	counts := BucketCounts(cfg, arrivals)
	gap := cfg.bucketGap()
	current := cfg.Start
	for i, seg := range cfg.Segments {
		if seg.Start.After(current) {
			current = seg.Start
		}
		for j := 0; j < counts[i]; j++ {
			customers = append(customers, newCustomer(current))
			current = current.Add(gap.draw(arrivals))
		}
	}
	return customers, nil
}

// BucketCounts returns one count per segment summing to cfg.Customers.
// A non-final bucket named in cfg.Distribution takes that count; any other
// non-final bucket draws uniformly from [0, 2*N/len(segments)]. The final bucket
// receives the remainder via Reconcile.
func BucketCounts(cfg ArrivalConfig, rng *rand.Rand) []int {
	n := len(cfg.Segments)
	counts := make([]int, n)
	mean := cfg.Customers / n
	for i, seg := range cfg.Segments[:n-1] {
		if n, ok := cfg.Distribution[seg.Name]; ok {
			counts[i] = n
			continue
		}
		counts[i] = rng.Intn(2*mean + 1)
	}
	return Reconcile(counts, cfg.Customers)
}

// Reconcile forces the final bucket to total - sum(others). When the earlier
// buckets already exceed total, the final bucket is clamped to zero and the
// overrun is removed from earlier buckets, latest first, so the result is
// non-negative and sums to total exactly. counts is modified in place.
func Reconcile(counts []int, total int) []int {
	if len(counts) == 0 {
		return counts
	}
	last := len(counts) - 1
	others := 0
	for _, c := range counts[:last] {
		others += c
	}
	counts[last] = total - others
	if counts[last] >= 0 {
		return counts
	}

	overrun := -counts[last]
	counts[last] = 0
	logrus.Debugf("hourly buckets exceed total by %d; trimming earlier buckets", overrun)
	for i := last - 1; i >= 0 && overrun > 0; i-- {
		cut := min(counts[i], overrun)
		counts[i] -= cut
		overrun -= cut
	}
	return counts
}

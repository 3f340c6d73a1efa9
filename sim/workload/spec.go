package workload

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/postoffice-sim/postoffice-sim/sim"
)

// DateLayout is the YAML format of DaySpec.Date.
const DateLayout = "2006-01-02"

// DaySpec is the YAML description of one simulated business day.
// Loaded via LoadDaySpec(path).
type DaySpec struct {
	Version   string      `yaml:"version"`
	Seed      int64       `yaml:"seed"`
	Date      string      `yaml:"date,omitempty"` // empty = today
	Open      string      `yaml:"open"`
	Close     string      `yaml:"close"`
	Counters  int         `yaml:"counters"`
	Customers int         `yaml:"customers"`
	Arrival   ArrivalSpec `yaml:"arrival"`
	Wait      WaitSpec    `yaml:"wait"`
}

// ArrivalSpec configures arrival layout.
type ArrivalSpec struct {
	Mode         ArrivalMode    `yaml:"mode"`
	Distribution map[string]int `yaml:"distribution,omitempty"` // hour bucket ("08:00") -> customers
	GapSeconds   *RangeSpec     `yaml:"gap_seconds,omitempty"`
	BucketGap    *RangeSpec     `yaml:"bucket_gap_seconds,omitempty"`
}

// RangeSpec is an inclusive numeric range.
type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// WaitSpec is the resolution window in minutes.
type WaitSpec struct {
	MinMinutes float64 `yaml:"min_minutes"`
	MaxMinutes float64 `yaml:"max_minutes"`
}

// DefaultDaySpec returns the built-in day: 08:00-18:00, 5 counters,
// 10000 customers, uniform arrivals, 10-30 minute waits.
func DefaultDaySpec() *DaySpec {
	return &DaySpec{
		Version:   "1",
		Seed:      42,
		Open:      sim.DefaultOpenClock,
		Close:     sim.DefaultCloseClock,
		Counters:  5,
		Customers: 10000,
		Arrival:   ArrivalSpec{Mode: ModeUniform},
		Wait:      WaitSpec{MinMinutes: sim.DefaultMinWaitMinutes, MaxMinutes: sim.DefaultMaxWaitMinutes},
	}
}

// LoadDaySpec reads and parses a YAML day file on top of
// DefaultDaySpec. Uses strict parsing: unrecognized keys are rejected.
func LoadDaySpec(path string) (*DaySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading day spec: %w", err)
	}
	spec := DefaultDaySpec()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(spec); err != nil {
		return nil, fmt.Errorf("parsing day spec: %w", err)
	}
	return spec, nil
}

// Day resolves the business-day window. now supplies the date when Date is empty.
func (s *DaySpec) Day(now time.Time) (time.Time, time.Time, error) {
	date := now
	if s.Date != "" {
		d, err := time.ParseInLocation(DateLayout, s.Date, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, sim.NewConfigError("date", "%v", err)
		}
		date = d
	}
	return sim.BusinessDay(date, s.Open, s.Close)
}

// RunConfig builds the simulator configuration for this day.
func (s *DaySpec) RunConfig(now time.Time) (sim.RunConfig, error) {
	open, closeAt, err := s.Day(now)
	if err != nil {
		return sim.RunConfig{}, err
	}
	cfg := sim.RunConfig{
		Counters:       s.Counters,
		OpenAt:         open,
		CloseAt:        closeAt,
		MinWaitMinutes: s.Wait.MinMinutes,
		MaxWaitMinutes: s.Wait.MaxMinutes,
	}
	return cfg, cfg.Validate()
}

// ArrivalConfig builds the generator configuration for this day.
func (s *DaySpec) ArrivalConfig(now time.Time) (ArrivalConfig, error) {
	open, closeAt, err := s.Day(now)
	if err != nil {
		return ArrivalConfig{}, err
	}
	cfg := ArrivalConfig{
		Customers:    s.Customers,
		Start:        open,
		Mode:         s.Arrival.Mode,
		Distribution: s.Arrival.Distribution,
	}
	if cfg.Mode == ModeDistributed {
		cfg.Segments = DaySegments(open, closeAt)
	}
	if s.Arrival.GapSeconds != nil {
		cfg.UniformGap = s.Arrival.GapSeconds.seconds()
	}
	if s.Arrival.BucketGap != nil {
		cfg.BucketGap = s.Arrival.BucketGap.seconds()
	}
	return cfg, cfg.Validate()
}

func (r RangeSpec) seconds() GapRange {
	return GapRange{
		Min: time.Duration(r.Min * float64(time.Second)),
		Max: time.Duration(r.Max * float64(time.Second)),
	}
}

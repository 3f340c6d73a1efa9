package sim

import "math/rand"

// MinuteRange is an inclusive integer range of minutes.
type MinuteRange struct {
	Min int
	Max int
}

// draw returns a uniform integer in [Min, Max].
func (r MinuteRange) draw(rng *rand.Rand) int {
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// defaultEstimateRange applies to Inquiry, Other and any unrecognized purpose.
var defaultEstimateRange = MinuteRange{Min: 1, Max: 5}

// estimateRanges maps each purpose to its service-duration range.
var estimateRanges = map[Purpose]MinuteRange{
	PurposeMailing:       {Min: 3, Max: 10},
	PurposePayment:       {Min: 1, Max: 5},
	PurposePackagePickup: {Min: 1, Max: 10},
}

// ServiceTimeModel maps a purpose to a random estimated service duration.
// The estimate paces the optional demo delay; it never bounds the wait window.
type ServiceTimeModel struct {
	rng *rand.Rand
}

// NewServiceTimeModel creates a model that draws from rng.
func NewServiceTimeModel(rng *rand.Rand) *ServiceTimeModel {
	if rng == nil {
		panic("NewServiceTimeModel: rng must not be nil")
	}
	return &ServiceTimeModel{rng: rng}
}

// Range returns the inclusive estimate range for a purpose.
func (m *ServiceTimeModel) Range(p Purpose) MinuteRange {
	if r, ok := estimateRanges[p]; ok {
		return r
	}
	return defaultEstimateRange
}

// Estimate draws an estimated service duration in minutes for p.
func (m *ServiceTimeModel) Estimate(p Purpose) int {
	return m.Range(p).draw(m.rng)
}

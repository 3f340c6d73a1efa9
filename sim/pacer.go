package sim

import (
	"math/rand"
	"time"
)

// Pacer inserts an artificial delay after each resolved customer.
// It has no effect on computed statistics.
type Pacer interface {
	Pace(c *Customer)
}

// NoPacer is the default Pacer; it returns immediately.
type NoPacer struct{}

func (NoPacer) Pace(*Customer) {}

// SleepPacer blocks for EstimatedMinutes/100 seconds plus U[0.05, 0.15) seconds
// of jitter, multiplied by Scale.
type SleepPacer struct {
	Scale float64
	rng   *rand.Rand
	sleep func(time.Duration)
}

// NewSleepPacer creates a SleepPacer drawing jitter from rng.
func NewSleepPacer(scale float64, rng *rand.Rand) *SleepPacer {
	return &SleepPacer{Scale: scale, rng: rng, sleep: time.Sleep}
}

// Delay returns the pause for c without sleeping.
func (p *SleepPacer) Delay(c *Customer) time.Duration {
	seconds := float64(c.EstimatedMinutes)/100 + 0.05 + p.rng.Float64()*0.10
	return time.Duration(seconds * p.Scale * float64(time.Second))
}

func (p *SleepPacer) Pace(c *Customer) {
	if d := p.Delay(c); d > 0 {
		p.sleep(d)
	}
}

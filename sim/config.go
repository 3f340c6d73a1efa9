package sim

import "time"

// Default business day and wait window.
const (
	DefaultOpenClock      = "08:00:00"
	DefaultCloseClock     = "18:00:00"
	DefaultMinWaitMinutes = 10.0
	DefaultMaxWaitMinutes = 30.0
)

// RunConfig groups the parameters of one simulation run.
type RunConfig struct {
	Counters       int       // number of service counters (must be > 0)
	OpenAt         time.Time // business-day start
	CloseAt        time.Time // end-of-business cutoff; no departure may exceed it
	MinWaitMinutes float64   // lower bound of the resolution window (> 0)
	MaxWaitMinutes float64   // upper bound of the resolution window (>= MinWaitMinutes)
}

// NewRunConfig creates a RunConfig with the default wait window.
func NewRunConfig(counters int, openAt, closeAt time.Time) RunConfig {
	return RunConfig{
		Counters:       counters,
		OpenAt:         openAt,
		CloseAt:        closeAt,
		MinWaitMinutes: DefaultMinWaitMinutes,
		MaxWaitMinutes: DefaultMaxWaitMinutes,
	}
}

// Validate rejects configurations a run cannot start with.
func (c RunConfig) Validate() error {
	if c.Counters <= 0 {
		return NewConfigError("counters", "must be positive, got %d", c.Counters)
	}
	if c.OpenAt.IsZero() || c.CloseAt.IsZero() {
		return NewConfigError("business day", "open and close times are required")
	}
	if !c.CloseAt.After(c.OpenAt) {
		return NewConfigError("business day", "close %s must be after open %s",
			c.CloseAt.Format(TimestampLayout), c.OpenAt.Format(TimestampLayout))
	}
	if c.MinWaitMinutes <= 0 {
		return NewConfigError("min wait", "must be positive, got %g", c.MinWaitMinutes)
	}
	if c.MaxWaitMinutes < c.MinWaitMinutes {
		return NewConfigError("max wait", "must be >= min wait %g, got %g", c.MinWaitMinutes, c.MaxWaitMinutes)
	}
	return nil
}

// BusinessDay returns open and close timestamps on the given date from
// clock strings in "15:04:05" form, in the date's location.
func BusinessDay(date time.Time, openClock, closeClock string) (time.Time, time.Time, error) {
	open, err := onDate(date, openClock)
	if err != nil {
		return time.Time{}, time.Time{}, NewConfigError("open", "%v", err)
	}
	closeAt, err := onDate(date, closeClock)
	if err != nil {
		return time.Time{}, time.Time{}, NewConfigError("close", "%v", err)
	}
	return open, closeAt, nil
}

func onDate(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, date.Location()), nil
}

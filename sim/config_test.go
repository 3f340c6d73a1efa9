package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDay(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	open, closeAt, err := BusinessDay(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), DefaultOpenClock, DefaultCloseClock)
	require.NoError(t, err)
	return open, closeAt
}

func TestNewRunConfig_DefaultWaitWindow(t *testing.T) {
	open, closeAt := testDay(t)
	got := NewRunConfig(4, open, closeAt)
	want := RunConfig{Counters: 4, OpenAt: open, CloseAt: closeAt, MinWaitMinutes: 10, MaxWaitMinutes: 30}
	assert.Equal(t, want, got)
	assert.NoError(t, got.Validate())
}

func TestRunConfig_Validate_RejectsBadValues(t *testing.T) {
	open, closeAt := testDay(t)
	tests := []struct {
		name   string
		mutate func(*RunConfig)
		field  string
	}{
		{"zero counters", func(c *RunConfig) { c.Counters = 0 }, "counters"},
		{"negative counters", func(c *RunConfig) { c.Counters = -3 }, "counters"},
		{"close before open", func(c *RunConfig) { c.CloseAt = c.OpenAt.Add(-time.Hour) }, "business day"},
		{"missing open", func(c *RunConfig) { c.OpenAt = time.Time{} }, "business day"},
		{"negative min wait", func(c *RunConfig) { c.MinWaitMinutes = -1 }, "min wait"},
		{"max below min", func(c *RunConfig) { c.MaxWaitMinutes = 5 }, "max wait"},
		{"zero window", func(c *RunConfig) { c.MinWaitMinutes, c.MaxWaitMinutes = 0, 0 }, "min wait"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewRunConfig(3, open, closeAt)
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestBusinessDay_BuildsTimesOnDate(t *testing.T) {
	open, closeAt := testDay(t)
	assert.Equal(t, time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC), open)
	assert.Equal(t, time.Date(2024, 5, 6, 18, 0, 0, 0, time.UTC), closeAt)

	_, _, err := BusinessDay(open, "8am", DefaultCloseClock)
	assert.ErrorIs(t, err, ErrConfiguration)
}

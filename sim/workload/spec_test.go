package workload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postoffice-sim/postoffice-sim/sim"
)

func writeSpec(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "day.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDaySpec_OverlaysDefaults(t *testing.T) {
	// GIVEN a spec that sets only counters, date and a distribution
	path := writeSpec(t, `
date: "2024-05-06"
counters: 3
arrival:
  mode: distributed
  distribution:
    "08:00": 120
    "12:00": 400
`)

	// WHEN loaded
	spec, err := LoadDaySpec(path)
	require.NoError(t, err)

	// THEN unspecified fields keep their defaults
	assert.Equal(t, 3, spec.Counters)
	assert.Equal(t, 10000, spec.Customers)
	assert.Equal(t, sim.DefaultOpenClock, spec.Open)
	assert.Equal(t, 10.0, spec.Wait.MinMinutes)
	assert.Equal(t, ModeDistributed, spec.Arrival.Mode)
	assert.Equal(t, 400, spec.Arrival.Distribution["12:00"])
}

func TestLoadDaySpec_UnknownField_Rejected(t *testing.T) {
	path := writeSpec(t, "countres: 3\n")
	_, err := LoadDaySpec(path)
	assert.Error(t, err)
}

func TestLoadDaySpec_MissingFile(t *testing.T) {
	_, err := LoadDaySpec(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDaySpec_RunConfig_UsesDateAndWaitWindow(t *testing.T) {
	spec := DefaultDaySpec()
	spec.Date = "2024-05-06"
	spec.Wait = WaitSpec{MinMinutes: 5, MaxMinutes: 15}

	cfg, err := spec.RunConfig(time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC), cfg.OpenAt)
	assert.Equal(t, time.Date(2024, 5, 6, 18, 0, 0, 0, time.UTC), cfg.CloseAt)
	assert.Equal(t, 5.0, cfg.MinWaitMinutes)
	assert.Equal(t, 15.0, cfg.MaxWaitMinutes)
	assert.Equal(t, 5, cfg.Counters)
}

func TestDaySpec_RunConfig_ZeroCounters_ConfigurationError(t *testing.T) {
	spec := DefaultDaySpec()
	spec.Counters = 0
	_, err := spec.RunConfig(time.Now())
	assert.ErrorIs(t, err, sim.ErrConfiguration)
}

func TestDaySpec_ArrivalConfig_DistributedBuildsSegments(t *testing.T) {
	spec := DefaultDaySpec()
	spec.Date = "2024-05-06"
	spec.Arrival = ArrivalSpec{Mode: ModeDistributed, BucketGap: &RangeSpec{Min: 2, Max: 4}}

	cfg, err := spec.ArrivalConfig(time.Now().UTC())
	require.NoError(t, err)

	assert.Len(t, cfg.Segments, 10)
	assert.Equal(t, GapRange{Min: 2 * time.Second, Max: 4 * time.Second}, cfg.BucketGap)
	assert.Equal(t, cfg.Segments[0].Start, cfg.Start)
}

func TestDaySpec_BadDate_ConfigurationError(t *testing.T) {
	spec := DefaultDaySpec()
	spec.Date = "06/05/2024"
	_, err := spec.ArrivalConfig(time.Now())
	assert.ErrorIs(t, err, sim.ErrConfiguration)
}

package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/postoffice-sim/postoffice-sim/sim/trace"
	"github.com/postoffice-sim/postoffice-sim/sim/workload"
)

// Practical ranges of the control surface; values outside only warn.
const (
	minRecommendedCounters  = 1
	maxRecommendedCounters  = 10
	minRecommendedCustomers = 1000
	maxRecommendedCustomers = 20000
)

// resolveDaySpec loads --day-spec (or the built-in default) and overlays
// every flag the user set explicitly. Flags left at their defaults never
// overwrite values from the YAML file.
func resolveDaySpec(cmd *cobra.Command) (*workload.DaySpec, error) {
	spec := workload.DefaultDaySpec()
	if daySpecPath != "" {
		loaded, err := workload.LoadDaySpec(daySpecPath)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}
	applyFlagOverrides(cmd, spec)
	return spec, nil
}

func applyFlagOverrides(cmd *cobra.Command, spec *workload.DaySpec) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		spec.Seed = seed
	}
	if flags.Changed("date") {
		spec.Date = date
	}
	if flags.Changed("open") {
		spec.Open = openClock
	}
	if flags.Changed("close") {
		spec.Close = closeClock
	}
	if flags.Changed("counters") {
		spec.Counters = counters
	}
	if flags.Changed("customers") {
		spec.Customers = customers
	}
	if flags.Changed("min-wait") {
		spec.Wait.MinMinutes = minWait
	}
	if flags.Changed("max-wait") {
		spec.Wait.MaxMinutes = maxWait
	}
	if flags.Changed("mode") {
		spec.Arrival.Mode = workload.ArrivalMode(arrivalMode)
	}
}

// recommendedRangeWarnings lists positive values outside the practical
// control ranges. Non-positive values are left to validation.
func recommendedRangeWarnings(spec *workload.DaySpec) []string {
	var warnings []string
	if spec.Counters > 0 && (spec.Counters < minRecommendedCounters || spec.Counters > maxRecommendedCounters) {
		warnings = append(warnings, fmt.Sprintf("counters=%d is outside the usual range %d-%d",
			spec.Counters, minRecommendedCounters, maxRecommendedCounters))
	}
	if spec.Customers > 0 && (spec.Customers < minRecommendedCustomers || spec.Customers > maxRecommendedCustomers) {
		warnings = append(warnings, fmt.Sprintf("customers=%d is outside the usual range %d-%d",
			spec.Customers, minRecommendedCustomers, maxRecommendedCustomers))
	}
	return warnings
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	_, _ = fmt.Fprintln(w, "=== Assignment Trace ===")
	_, _ = fmt.Fprintf(w, "Decisions            : %d\n", s.TotalDecisions)
	_, _ = fmt.Fprintf(w, "Resolved             : %d\n", s.ResolvedCount)
	_, _ = fmt.Fprintf(w, "Dropped at cutoff    : %d\n", s.DroppedCount)
	_, _ = fmt.Fprintf(w, "Counters used        : %d\n", s.UniqueCounters)
	_, _ = fmt.Fprintf(w, "Max imbalance        : %d\n", s.MaxImbalance)
	ids := make([]int, 0, len(s.CounterDistribution))
	for id := range s.CounterDistribution {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		_, _ = fmt.Fprintf(w, "  Counter %-2d assigned: %d\n", id, s.CounterDistribution[id])
	}
}

// defaultsCmd prints the built-in day spec as YAML, a starting point for --day-spec.
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in day spec as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := yaml.Marshal(workload.DefaultDaySpec())
		if err != nil {
			logrus.Fatalf("YAML marshal failed: %v", err)
		}
		fmt.Print(string(data))
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}

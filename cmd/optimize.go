package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/postoffice-sim/postoffice-sim/sim/analytics"
	"github.com/postoffice-sim/postoffice-sim/sim/staffing"
)

var (
	baseWait       float64 // Average wait with one counter, minutes
	maxAvgWait     float64 // Acceptable average wait, minutes
	budget         float64 // Total budget
	costPerCounter float64 // Cost of one counter
	solverName     string  // enumeration or branch-and-bound
	tableSize      int     // Print constraint table for 1..N counters
	fromStore      bool    // Take base wait from persisted records
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Recommend the minimum counter count for a wait ceiling and budget",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if !staffing.IsValidSolver(solverName) {
			logrus.Fatalf("Unknown solver %q; valid: %s, %s", solverName, staffing.SolverEnumeration, staffing.SolverBranchAndBound)
		}

		scenario := staffing.Scenario{
			BaseWait:       baseWait,
			MaxAvgWait:     maxAvgWait,
			Budget:         budget,
			CostPerCounter: costPerCounter,
		}
		if fromStore {
			mean, err := persistedMeanWait(context.Background())
			if err != nil {
				logrus.Fatalf("Reading base wait from store: %v", err)
			}
			logrus.Infof("Using persisted mean wait %.2f min as base wait", mean)
			scenario.BaseWait = mean
		}

		if err := runOptimize(os.Stdout, solverName, scenario, tableSize); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runOptimize writes the recommendation, or "Infeasible", to w. Only
// configuration and solver failures are returned as errors.
func runOptimize(w io.Writer, name string, s staffing.Scenario, table int) error {
	solver, err := staffing.NewSolver(name)
	if err != nil {
		return err
	}
	rec, err := staffing.RecommendWith(solver, s)
	switch {
	case errors.Is(err, staffing.ErrInfeasible):
		_, _ = fmt.Fprintf(w, "Infeasible: %v\n", err)
	case err != nil:
		return err
	default:
		_, _ = fmt.Fprintf(w, "Recommended counters : %d\n", rec.Counters)
		_, _ = fmt.Fprintf(w, "Average wait         : %.2f min\n", rec.AvgWait)
		_, _ = fmt.Fprintf(w, "Total cost           : %.2f\n", rec.TotalCost)
	}

	if table > 0 {
		_, _ = fmt.Fprintln(w, "counters  avg_wait  total_cost  meets_wait  within_budget")
		for x := 1; x <= table; x++ {
			c := s.Evaluate(x)
			_, _ = fmt.Fprintf(w, "%8d  %8.2f  %10.2f  %10t  %13t\n",
				c.Counters, c.AvgWait, c.TotalCost, c.MeetsWait, c.WithinBudget)
		}
	}
	return nil
}

func persistedMeanWait(ctx context.Context) (float64, error) {
	url := resolveDatabaseURL(databaseURL)
	if url == "" {
		return 0, errors.New("--from-store needs --database-url or DATABASE_URL")
	}
	sink, closeSink, err := openSink(ctx, url)
	if err != nil {
		return 0, err
	}
	defer closeSink()

	_, summary, err := analytics.Load(ctx, sink)
	if err != nil {
		return 0, err
	}
	if summary.Count == 0 {
		return 0, errors.New("store holds no records; run a simulation first")
	}
	return summary.Mean, nil
}

func init() {
	optimizeCmd.Flags().Float64Var(&baseWait, "base-wait", 100, "Average wait with one counter (minutes)")
	optimizeCmd.Flags().Float64Var(&maxAvgWait, "max-avg-wait", 15, "Maximum acceptable average wait (minutes)")
	optimizeCmd.Flags().Float64Var(&budget, "budget", 1500, "Total budget")
	optimizeCmd.Flags().Float64Var(&costPerCounter, "cost", 200, "Cost per counter")
	optimizeCmd.Flags().StringVar(&solverName, "solver", staffing.SolverBranchAndBound, "Solver (enumeration, branch-and-bound)")
	optimizeCmd.Flags().IntVar(&tableSize, "table", 0, "Also print the constraint table for 1..N counters")
	optimizeCmd.Flags().BoolVar(&fromStore, "from-store", false, "Use the persisted mean wait as base wait")

	rootCmd.AddCommand(optimizeCmd)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/postoffice-sim/postoffice-sim/sim"
	"github.com/postoffice-sim/postoffice-sim/sim/trace"
	"github.com/postoffice-sim/postoffice-sim/sim/workload"
)

var (
	// CLI flags for the simulated day
	seed        int64   // Seed for arrivals, estimates and waits
	logLevel    string  // Log verbosity level
	daySpecPath string  // Optional YAML day spec; flags override its fields
	date        string  // Business date (YYYY-MM-DD); empty = today
	openClock   string  // Opening time (HH:MM:SS)
	closeClock  string  // End-of-business cutoff (HH:MM:SS)
	counters    int     // Number of service counters
	customers   int     // Number of customers generated for the day
	minWait     float64 // Lower bound of the resolution window in minutes
	maxWait     float64 // Upper bound of the resolution window in minutes
	arrivalMode string  // uniform or distributed
	paceScale   float64 // Demo pacing multiplier; 0 disables pacing
	traceLevel  string  // Decision trace level
	databaseURL string  // Postgres URL; falls back to DATABASE_URL
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "postoffice-sim",
	Short: "Post office queue simulator and staffing optimizer",
}

// runCmd simulates one business day using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one business day of customers",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q; valid: none, decisions", traceLevel)
		}

		spec, err := resolveDaySpec(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		for _, w := range recommendedRangeWarnings(spec) {
			logrus.Warn(w)
		}

		ctx := context.Background()
		sink, closeSink, err := openSink(ctx, resolveDatabaseURL(databaseURL))
		if err != nil {
			logrus.Fatalf("Opening result sink: %v", err)
		}
		defer closeSink()

		day := dayOptions{Now: time.Now(), PaceScale: paceScale, Trace: trace.TraceLevel(traceLevel)}
		if _, err := runDay(ctx, os.Stdout, spec, sink, day); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// dayOptions carries the run settings that are not part of a DaySpec.
type dayOptions struct {
	Now       time.Time // supplies the date when the spec has none
	PaceScale float64   // 0 disables pacing
	Trace     trace.TraceLevel
}

// runDay generates the spec's arrivals, simulates the day into sink and
// prints the run metrics (plus the trace summary when tracing) to w.
// Configuration errors are returned before sink is touched.
func runDay(ctx context.Context, w io.Writer, spec *workload.DaySpec, sink sim.ResultSink, day dayOptions) (sim.RunResult, error) {
	runCfg, err := spec.RunConfig(day.Now)
	if err != nil {
		return sim.RunResult{}, fmt.Errorf("invalid run configuration: %w", err)
	}
	arrivalCfg, err := spec.ArrivalConfig(day.Now)
	if err != nil {
		return sim.RunResult{}, fmt.Errorf("invalid arrival configuration: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	arrivals, err := workload.Generate(arrivalCfg, rng)
	if err != nil {
		return sim.RunResult{}, fmt.Errorf("generating arrivals: %w", err)
	}

	opts := []sim.Option{}
	if day.PaceScale > 0 {
		opts = append(opts, sim.WithPacer(sim.NewSleepPacer(day.PaceScale, rng.ForSubsystem(sim.SubsystemPacing))))
	}
	var st *trace.SimulationTrace
	if day.Trace == trace.TraceLevelDecisions {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		opts = append(opts, sim.WithTrace(st))
	}

	logrus.Infof("Starting simulation: %d counters, %d customers, %s-%s, waits %.0f-%.0f min",
		runCfg.Counters, len(arrivals), runCfg.OpenAt.Format(sim.TimestampLayout),
		runCfg.CloseAt.Format(sim.TimestampLayout), runCfg.MinWaitMinutes, runCfg.MaxWaitMinutes)

	s, err := sim.NewQueueSimulator(runCfg, sink, rng, opts...)
	if err != nil {
		return sim.RunResult{}, err
	}
	result, err := s.Simulate(ctx, arrivals)
	if err != nil {
		return sim.RunResult{}, fmt.Errorf("simulation failed: %w", err)
	}
	if !result.Completed {
		logrus.Infof("End of business reached; %d customers were not served", result.Dropped)
	}
	s.Metrics.Print(w)
	if st != nil {
		printTraceSummary(w, trace.Summarize(st))
	}
	return result, nil
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL for results (default $DATABASE_URL; empty = in-memory)")

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random customer generation")
	runCmd.Flags().StringVar(&daySpecPath, "day-spec", "", "Path to YAML day spec (flags override its values)")
	runCmd.Flags().StringVar(&date, "date", "", "Business date YYYY-MM-DD (default today)")
	runCmd.Flags().StringVar(&openClock, "open", sim.DefaultOpenClock, "Opening time HH:MM:SS")
	runCmd.Flags().StringVar(&closeClock, "close", sim.DefaultCloseClock, "End-of-business cutoff HH:MM:SS")
	runCmd.Flags().IntVar(&counters, "counters", 5, "Number of service counters (1-10 recommended)")
	runCmd.Flags().IntVar(&customers, "customers", 10000, "Number of customers (1000-20000 recommended)")
	runCmd.Flags().Float64Var(&minWait, "min-wait", sim.DefaultMinWaitMinutes, "Minimum resolution time in minutes")
	runCmd.Flags().Float64Var(&maxWait, "max-wait", sim.DefaultMaxWaitMinutes, "Maximum resolution time in minutes")
	runCmd.Flags().StringVar(&arrivalMode, "mode", string(workload.ModeUniform), "Arrival mode (uniform, distributed)")
	runCmd.Flags().Float64Var(&paceScale, "pace", 0, "Demo pacing multiplier per customer (0 = no delay)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

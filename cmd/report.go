package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/postoffice-sim/postoffice-sim/sim"
	"github.com/postoffice-sim/postoffice-sim/sim/analytics"
)

var bucketWidth time.Duration // Resampling width for the wait series

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize persisted records: wait series, hourly arrivals, counter load",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		url := resolveDatabaseURL(databaseURL)
		if url == "" {
			logrus.Fatalf("report needs --database-url or DATABASE_URL")
		}
		ctx := context.Background()
		sink, closeSink, err := openSink(ctx, url)
		if err != nil {
			logrus.Fatalf("Opening result sink: %v", err)
		}
		defer closeSink()

		records, err := sink.Records(ctx)
		if err != nil {
			logrus.Fatalf("Reading records: %v", err)
		}
		if err := writeReport(os.Stdout, records, bucketWidth); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func writeReport(w io.Writer, records []sim.Record, width time.Duration) error {
	buckets, err := analytics.Resample(records, width)
	if err != nil {
		return err
	}
	s := analytics.Summarize(records)

	_, _ = fmt.Fprintln(w, "=== Wait Summary ===")
	_, _ = fmt.Fprintf(w, "Records              : %d\n", s.Count)
	if s.Count == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Mean / StdDev        : %.2f / %.2f min\n", s.Mean, s.StdDev)
	_, _ = fmt.Fprintf(w, "Min / Max            : %.2f / %.2f min\n", s.Min, s.Max)
	_, _ = fmt.Fprintf(w, "P50 / P90 / P95      : %.2f / %.2f / %.2f min\n", s.P50, s.P90, s.P95)

	_, _ = fmt.Fprintf(w, "=== Mean Wait per %s ===\n", width)
	for _, b := range buckets {
		if math.IsNaN(b.MeanWait) {
			_, _ = fmt.Fprintf(w, "%s  %6s  (n=0)\n", b.Start.Format(sim.TimestampLayout), "-")
			continue
		}
		_, _ = fmt.Fprintf(w, "%s  %6.2f  (n=%d)\n", b.Start.Format(sim.TimestampLayout), b.MeanWait, b.Count)
	}

	_, _ = fmt.Fprintln(w, "=== Arrivals per Hour ===")
	hourly := analytics.HourlyArrivals(records)
	hours := make([]int, 0, len(hourly))
	for h := range hourly {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	for _, h := range hours {
		_, _ = fmt.Fprintf(w, "%02d:00  %d\n", h, hourly[h])
	}

	_, _ = fmt.Fprintln(w, "=== Counter Load ===")
	for _, c := range analytics.Counters(records) {
		_, _ = fmt.Fprintf(w, "Counter %-2d served %d, mean wait %.2f min\n", c.Counter, c.Served, c.MeanWait)
	}
	return nil
}

func init() {
	reportCmd.Flags().DurationVar(&bucketWidth, "bucket", analytics.DefaultBucket, "Resampling width for the wait series")

	rootCmd.AddCommand(reportCmd)
}

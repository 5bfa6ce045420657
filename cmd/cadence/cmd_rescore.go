package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/display"
	"cadence/internal/format"
	"cadence/internal/pipeline"
)

var rescoreFlags struct {
	threshold   time.Duration
	dryRun      bool
	weightsPath string
	workers     int
}

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Rescore artifacts whose latest score is older than a threshold",
	Long: `Rescore stale artifacts under the current weights config. Old score
rows are never touched; each rescore appends a new row. With --dry-run
the deltas are printed without writing anything.`,
	RunE: runRescore,
}

func init() {
	f := rescoreCmd.Flags()
	f.DurationVar(&rescoreFlags.threshold, "threshold", 720*time.Hour, "Staleness threshold for the latest score")
	f.BoolVar(&rescoreFlags.dryRun, "dry-run", false, "Compute deltas without writing score rows")
	f.StringVar(&rescoreFlags.weightsPath, "weights", "", "Weights config YAML (default: embedded)")
	f.IntVar(&rescoreFlags.workers, "workers", pipeline.DefaultWorkers, "Concurrent contacts in flight")
}

func runRescore(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	weights, err := loadWeights(rescoreFlags.weightsPath)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(pipeline.Config{
		Store:   st,
		Weights: weights,
		Workers: rescoreFlags.workers,
	})
	res, err := runner.RescoreStale(cmd.Context(), rescoreFlags.threshold, rescoreFlags.dryRun, time.Now().UTC())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Rows) > 0 {
		tb := format.NewTable(format.ASCII)
		tb.Header("Contact", "Old", "New", "Delta", "Tier")
		for _, row := range res.Rows {
			tier := display.Tier(string(row.NewTier))
			if row.Migrated {
				tier = fmt.Sprintf("%s -> %s", display.Tier(string(row.OldTier)), display.Tier(string(row.NewTier)))
			}
			tb.Row(row.ContactID,
				fmt.Sprintf("%.1f", row.OldTotal),
				fmt.Sprintf("%.1f", row.NewTotal),
				format.Delta(row.Delta), tier)
		}
		tb.Columns(format.RightAlign(2, 3, 4)...)
		fmt.Fprintln(out, tb.String())
	}
	mode := "written"
	if res.DryRun {
		mode = "dry run, nothing written"
	}
	fmt.Fprintf(out, "\n%d examined, %d rescored, %d tier migrations (%s)\n",
		res.Examined, res.Written, res.Migrations, mode)
	return nil
}

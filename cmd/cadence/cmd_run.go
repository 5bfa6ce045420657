package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/demo"
	"cadence/internal/display"
	"cadence/internal/pipeline"
)

var runFlags struct {
	workers     int
	weightsPath string
	catalogPath string
	verbose     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline over the fixture cohort (no network)",
	Long: `Build artifacts, score them, generate the next due touch for each
prospect, run the quality gate, and persist everything. The fixture
cohort is embedded; nothing leaves the machine.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runFlags.workers, "workers", pipeline.DefaultWorkers, "Concurrent contacts in flight")
	f.StringVar(&runFlags.weightsPath, "weights", "", "Weights config YAML (default: embedded)")
	f.StringVar(&runFlags.catalogPath, "catalog", "", "Message catalog YAML (default: embedded)")
	f.BoolVarP(&runFlags.verbose, "verbose", "v", false, "Print full variant bodies")
}

func runRun(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	weights, err := loadWeights(runFlags.weightsPath)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(runFlags.catalogPath)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	prospects, cache, err := demo.Cohort(now)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(pipeline.Config{
		Store:   st,
		Cache:   cache,
		Weights: weights,
		Catalog: catalog,
		Workers: runFlags.workers,
	})
	batch, err := runner.Run(cmd.Context(), prospects, now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range batch.Results {
		if res.Err != nil {
			fmt.Fprintf(out, "%-14s FAILED at %s: %v\n", res.ContactID, res.Stage, res.Err)
			continue
		}
		if res.SequenceDone {
			fmt.Fprintf(out, "%-14s sequence exhausted\n", res.ContactID)
			continue
		}
		passed := 0
		for _, rep := range res.Reports {
			if rep.Passed {
				passed++
			}
		}
		fmt.Fprintf(out, "%-14s %s  score=%.1f tier=%s touch=%d gate=%d/%d\n",
			res.ContactID, res.Artifact.Contact.Name,
			res.Score.Total, res.Score.Tier, res.TouchNumber, passed, len(res.Reports))

		for _, rep := range res.Reports {
			for _, v := range rep.Violations {
				fmt.Fprintf(out, "    [%s] %s: %s\n", rep.Tone, display.GateCheck(v.Check), v.Detail)
			}
		}
		if runFlags.verbose && res.Variants != nil {
			for _, v := range res.Variants.Variants {
				fmt.Fprintf(out, "\n--- %s / %s / %s (%d words) ---\n%s\n",
					res.ContactID, v.Tone, v.Channel, v.WordCount, v.Body)
			}
		}
	}
	fmt.Fprintf(out, "\n%d succeeded, %d failed\n", batch.Succeeded, batch.Failed)
	return nil
}

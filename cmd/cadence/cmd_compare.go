package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/score"
)

var compareFlags struct {
	pathA string
	pathB string
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two weight configs over the stored artifacts",
	Long: `Score every stored artifact under both configs and print the
per-artifact and aggregate deltas, including tier migrations. Purely
read-side: no score rows are written.`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVarP(&compareFlags.pathA, "config-a", "a", "", "Baseline weights YAML (required)")
	f.StringVarP(&compareFlags.pathB, "config-b", "b", "", "Candidate weights YAML (required)")

	_ = compareCmd.MarkFlagRequired("config-a")
	_ = compareCmd.MarkFlagRequired("config-b")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfgA, err := loadWeights(compareFlags.pathA)
	if err != nil {
		return err
	}
	cfgB, err := loadWeights(compareFlags.pathB)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	artifacts, err := st.ListArtifacts()
	if err != nil {
		return fmt.Errorf("list artifacts: %w", err)
	}
	if len(artifacts) == 0 {
		return fmt.Errorf("no artifacts in store; run 'cadence run' first")
	}

	cmpResult, err := score.CompareConfigs(cfgA, cfgB, artifacts, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), cmpResult.Format())
	return nil
}

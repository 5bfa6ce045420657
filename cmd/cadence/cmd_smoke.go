package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/demo"
	"cadence/internal/message"
)

// polisher is the optional stylistic-rewrite collaborator. Left nil,
// drafts ship unpolished; wiring a concrete implementation here is the
// only integration point.
var polisher message.Polisher

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Quick health check of the toolchain and the polish collaborator",
	Long: `Load the embedded configs and fixtures, render one variant set in
memory, and ping the polish collaborator if one is wired. Nothing is
persisted.`,
	RunE: runSmoke,
}

func runSmoke(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	catalog := message.DefaultCatalog()
	fmt.Fprintf(out, "catalog:      ok (%d proof points)\n", len(catalog.ProofPoints))

	now := time.Now().UTC()
	prospects, _, err := demo.Cohort(now)
	if err != nil {
		return fmt.Errorf("fixtures: %w", err)
	}
	fmt.Fprintf(out, "fixtures:     ok (%d prospects)\n", len(prospects))

	if polisher == nil {
		fmt.Fprintf(out, "collaborator: not configured, drafts ship unpolished\n")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	if err := polisher.Health(ctx); err != nil {
		return fmt.Errorf("collaborator health: %w", err)
	}
	fmt.Fprintf(out, "collaborator: ok\n")
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"cadence/internal/score"
)

// RescoreRow is one artifact's before/after under the current config.
type RescoreRow struct {
	ArtifactID string
	ContactID  string
	OldTotal   float64
	NewTotal   float64
	Delta      float64
	OldTier    score.Tier
	NewTier    score.Tier
	Migrated   bool
}

// RescoreResult summarizes a rescore-stale pass.
type RescoreResult struct {
	Rows       []RescoreRow
	Examined   int
	Written    int
	Migrations int
	DryRun     bool
}

// RescoreStale rescores every artifact whose latest score is older than
// the threshold (or that has no score at all) under the runner's
// current config. New score rows are appended, old rows stay untouched.
// With dryRun the deltas are computed and returned but nothing is
// written.
func (r *Runner) RescoreStale(ctx context.Context, threshold time.Duration, dryRun bool, now time.Time) (*RescoreResult, error) {
	artifacts, err := r.store.ListArtifacts()
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	out := &RescoreResult{DryRun: dryRun}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		latest, err := r.store.LatestScoreForArtifact(a.ID)
		if err != nil {
			return nil, fmt.Errorf("latest score for %s: %w", a.ID, err)
		}
		if latest != nil && now.Sub(latest.ScoredAt) < threshold {
			continue
		}
		out.Examined++

		fresh, err := score.FromArtifact(a, r.weights, now)
		if err != nil {
			// A stale artifact that no longer validates is a data
			// problem, not a batch-stopper.
			r.log.Warn("rescore skipped", "artifact_id", a.ID, "error", err)
			continue
		}

		row := RescoreRow{
			ArtifactID: a.ID,
			ContactID:  a.Contact.ID,
			NewTotal:   fresh.Total,
			NewTier:    fresh.Tier,
		}
		if latest != nil {
			row.OldTotal = latest.Total
			row.OldTier = latest.Tier
		}
		row.Delta = math.Round((row.NewTotal-row.OldTotal)*100) / 100
		row.Migrated = latest != nil && row.OldTier != row.NewTier
		if row.Migrated {
			out.Migrations++
		}
		out.Rows = append(out.Rows, row)

		if !dryRun {
			if err := r.store.SaveScore(fresh); err != nil {
				return nil, fmt.Errorf("save score for %s: %w", a.ID, err)
			}
			out.Written++
		}
	}

	r.log.Info("rescore pass complete",
		"examined", out.Examined,
		"written", out.Written,
		"migrations", out.Migrations,
		"dry_run", dryRun)
	return out, nil
}

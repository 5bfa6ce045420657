package pipeline

import (
	"context"
	"testing"
	"time"

	"cadence/adapters/store"
)

// rescoreRunner anchors cache fetch times to the build date so signal
// ages stay positive when scoring in the past.
func rescoreRunner(st store.Store, then time.Time) *Runner {
	cache := testCache()
	for _, c := range cache.company {
		c.FetchedAt = then.Add(-48 * time.Hour)
	}
	for _, p := range cache.person {
		p.FetchedAt = then.Add(-24 * time.Hour)
	}
	return NewRunner(Config{Store: st, Cache: cache, Workers: 1})
}

func TestRescoreStale(t *testing.T) {
	st := store.NewMemStore()

	// Build and score once, 60 days ago.
	then := runNow.AddDate(0, 0, -60)
	r := rescoreRunner(st, then)
	if _, err := r.Run(context.Background(), testProspects()[:1], then); err != nil {
		t.Fatal(err)
	}

	arts, err := st.ListArtifacts()
	if err != nil || len(arts) != 1 {
		t.Fatalf("artifacts = %d (%v), want 1", len(arts), err)
	}
	a := arts[0]

	// Dry run computes the delta without writing.
	dry, err := r.RescoreStale(context.Background(), 30*24*time.Hour, true, runNow)
	if err != nil {
		t.Fatalf("RescoreStale dry: %v", err)
	}
	if dry.Examined != 1 || dry.Written != 0 || len(dry.Rows) != 1 {
		t.Fatalf("dry = %+v", dry)
	}
	if dry.Rows[0].ArtifactID != a.ID {
		t.Errorf("row artifact = %q, want %q", dry.Rows[0].ArtifactID, a.ID)
	}
	scores, err := st.ListScores()
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Fatalf("dry run wrote a score row: %d rows", len(scores))
	}

	// Wet run appends a new row; the old one stays.
	wet, err := r.RescoreStale(context.Background(), 30*24*time.Hour, false, runNow)
	if err != nil {
		t.Fatalf("RescoreStale: %v", err)
	}
	if wet.Written != 1 {
		t.Fatalf("written = %d, want 1", wet.Written)
	}
	scores, err = st.ListScores()
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 {
		t.Fatalf("score rows = %d, want 2 (append-only)", len(scores))
	}
	latest, err := st.LatestScoreForArtifact(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !latest.ScoredAt.Equal(runNow) {
		t.Errorf("latest scored_at = %v, want %v", latest.ScoredAt, runNow)
	}

	// Freshly scored artifacts are left alone.
	again, err := r.RescoreStale(context.Background(), 30*24*time.Hour, false, runNow)
	if err != nil {
		t.Fatal(err)
	}
	if again.Examined != 0 || again.Written != 0 {
		t.Errorf("fresh artifact rescored: %+v", again)
	}
}

func TestRescoreDetectsTierMigration(t *testing.T) {
	st := store.NewMemStore()
	then := runNow.AddDate(0, 0, -60)
	r := rescoreRunner(st, then)

	if _, err := r.Run(context.Background(), testProspects()[:1], then); err != nil {
		t.Fatal(err)
	}
	arts, err := st.ListArtifacts()
	if err != nil {
		t.Fatal(err)
	}
	old, err := st.LatestScoreForArtifact(arts[0].ID)
	if err != nil {
		t.Fatal(err)
	}

	// Signal decay over 60 extra days pulls the total down; whether the
	// tier moves depends on where the old total sat, so assert the
	// bookkeeping instead of a hardcoded migration.
	res, err := r.RescoreStale(context.Background(), 30*24*time.Hour, true, runNow)
	if err != nil {
		t.Fatal(err)
	}
	row := res.Rows[0]
	if row.OldTotal != old.Total || row.OldTier != old.Tier {
		t.Errorf("old side = %+v, want total %v tier %s", row, old.Total, old.Tier)
	}
	if row.NewTotal > row.OldTotal {
		t.Errorf("decayed rescore went up: %v -> %v", row.OldTotal, row.NewTotal)
	}
	if row.Migrated != (row.OldTier != row.NewTier) {
		t.Errorf("migration flag inconsistent: %+v", row)
	}
}

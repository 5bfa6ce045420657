package score

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cadence/internal/artifact"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strongArtifact() *artifact.ResearchArtifact {
	return &artifact.ResearchArtifact{
		ID: "art-1",
		Contact: artifact.Contact{
			ID:        "cont-1",
			Title:     "Director of Quality Engineering",
			Function:  "QA/Testing",
			Seniority: "director",
		},
		Account: artifact.Account{
			ID:        "acct-1",
			Industry:  "FinTech",
			Vertical:  "FinTech",
			Employees: 800,
		},
		Pains: []artifact.PainHypothesis{
			{Label: "maintenance", Confidence: 0.9, Evidence: "job posting mentions flaky-test burden"},
		},
		TechStack: []artifact.TechSignal{
			{Tool: "selenium", Evidence: "job posting lists Selenium"},
		},
		Signals: []artifact.Signal{
			{Type: artifact.SignalHiringQA, ObservedAt: testNow.Add(-10 * 24 * time.Hour)},
			{Type: artifact.SignalFunding, ObservedAt: testNow.Add(-30 * 24 * time.Hour)},
		},
		DataQuality: artifact.DataQuality{Score: 0.9},
		BuiltAt:     testNow.Add(-24 * time.Hour),
	}
}

func TestFromArtifactDeterministic(t *testing.T) {
	cfg := Default()
	a := strongArtifact()

	r1, err := FromArtifact(a, cfg, testNow)
	if err != nil {
		t.Fatalf("FromArtifact: %v", err)
	}
	r2, err := FromArtifact(a, cfg, testNow)
	if err != nil {
		t.Fatalf("FromArtifact: %v", err)
	}

	ignore := cmpopts.IgnoreFields(Result{}, "ID")
	if diff := cmp.Diff(r1, r2, ignore); diff != "" {
		t.Errorf("identical inputs produced different results (-first +second):\n%s", diff)
	}
}

func TestFromArtifactBounds(t *testing.T) {
	cfg := Default()
	r, err := FromArtifact(strongArtifact(), cfg, testNow)
	if err != nil {
		t.Fatalf("FromArtifact: %v", err)
	}

	if r.Total < 0 || r.Total > 100 {
		t.Errorf("total = %v, want [0,100]", r.Total)
	}
	sum := 0.0
	for _, w := range r.FeatureWeights {
		sum += w
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("snapshot weights sum = %v, want 100", sum)
	}

	// Total must equal the weighted feature sum it reports.
	recomputed := 0.0
	for name, s := range r.FeatureScores {
		recomputed += r.FeatureWeights[name] * s
	}
	if math.Abs(recomputed-r.Total) > 0.05 {
		t.Errorf("total %v does not match weighted features %v", r.Total, recomputed)
	}

	if len(r.Reasons) == 0 {
		t.Error("expected reasons for non-zero features")
	}
	if r.Tier != cfg.TierFor(r.Total) {
		t.Errorf("tier %s inconsistent with total %v", r.Tier, r.Total)
	}
}

func TestDecayMonotonic(t *testing.T) {
	cfg := Default()
	a := strongArtifact()

	prev := math.Inf(1)
	for _, ageDays := range []int{0, 10, 30, 90, 365} {
		r, err := FromArtifact(a, cfg, testNow.Add(time.Duration(ageDays)*24*time.Hour))
		if err != nil {
			t.Fatalf("FromArtifact at +%dd: %v", ageDays, err)
		}
		got := r.FeatureScores[FeatureIntentSignal]
		if got > prev {
			t.Errorf("intent score rose from %v to %v at +%dd", prev, got, ageDays)
		}
		prev = got
	}
}

func TestDecayAudited(t *testing.T) {
	cfg := Default()
	r, err := FromArtifact(strongArtifact(), cfg, testNow)
	if err != nil {
		t.Fatalf("FromArtifact: %v", err)
	}
	if len(r.DecayApplied) != 2 {
		t.Fatalf("decay_applied has %d entries, want 2 (both signals are aged)", len(r.DecayApplied))
	}
	for _, d := range r.DecayApplied {
		if d.Factor <= 0 || d.Factor >= 1 {
			t.Errorf("decay factor for %s = %v, want (0,1)", d.SignalType, d.Factor)
		}
	}
}

func TestDecayFactor(t *testing.T) {
	tests := []struct {
		name     string
		age      time.Duration
		halfLife float64
		want     float64
	}{
		{"fresh", 0, 30, 1},
		{"one half-life", 30 * 24 * time.Hour, 30, 0.5},
		{"two half-lives", 60 * 24 * time.Hour, 30, 0.25},
		{"future-dated clamps", -time.Hour, 30, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecayFactor(tt.age, tt.halfLife)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DecayFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromArtifactFailsClosedOnEvidence(t *testing.T) {
	a := strongArtifact()
	a.Pains = append(a.Pains, artifact.PainHypothesis{Label: "guessed", Confidence: 0.95})

	_, err := FromArtifact(a, Default(), testNow)
	var ee *artifact.EvidenceError
	if !errors.As(err, &ee) {
		t.Fatalf("FromArtifact = %v, want *artifact.EvidenceError", err)
	}
}

func TestColdArtifact(t *testing.T) {
	a := &artifact.ResearchArtifact{
		ID:      "art-empty",
		Contact: artifact.Contact{ID: "cont-2", Title: "Office Manager", Function: "Other", Seniority: "manager"},
		Account: artifact.Account{ID: "acct-2", Industry: "Logistics"},
	}
	r, err := FromArtifact(a, Default(), testNow)
	if err != nil {
		t.Fatalf("FromArtifact: %v", err)
	}
	if r.Tier != TierCold && r.Tier != TierCool {
		t.Errorf("weak artifact scored %v (%s), expected cool or cold", r.Total, r.Tier)
	}
}

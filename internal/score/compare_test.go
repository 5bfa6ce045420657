package score

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cadence/internal/artifact"
)

// fixtureSet builds a deterministic set of artifacts spread across
// seniority, vertical, and signal freshness.
func fixtureSet(n int) []*artifact.ResearchArtifact {
	titles := []string{
		"Director of Quality Engineering", "QA Manager", "VP Engineering",
		"Senior SDET", "Product Manager",
	}
	industries := []string{"FinTech", "SaaS", "Healthcare", "Retail", "Logistics"}

	var out []*artifact.ResearchArtifact
	for i := 0; i < n; i++ {
		title := titles[i%len(titles)]
		a := &artifact.ResearchArtifact{
			ID: fmt.Sprintf("art-%03d", i),
			Contact: artifact.Contact{
				ID:        fmt.Sprintf("cont-%03d", i),
				Title:     title,
				Function:  artifact.InferFunction(title),
				Seniority: artifact.InferSeniority(title, ""),
			},
			Account: artifact.Account{
				ID:        fmt.Sprintf("acct-%03d", i),
				Industry:  industries[i%len(industries)],
				Employees: 100 * (i%50 + 1),
			},
			DataQuality: artifact.DataQuality{Score: 0.5 + float64(i%5)*0.1},
		}
		if i%2 == 0 {
			a.Signals = append(a.Signals, artifact.Signal{
				Type:       artifact.SignalHiringQA,
				ObservedAt: testNow.Add(-time.Duration(i) * 24 * time.Hour),
			})
		}
		if i%3 == 0 {
			a.Pains = append(a.Pains, artifact.PainHypothesis{
				Label:      "maintenance",
				Confidence: 0.8,
				Evidence:   "job posting mentions flaky-test burden",
			})
		}
		out = append(out, a)
	}
	return out
}

func shiftedConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Parse([]byte(`
version: candidate
weights:
  title_seniority: 20
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 15
  intent_signal: 20
  data_quality: 10
tiers: {hot: 80, warm: 60, cool: 35}
half_life_days:
  hiring_qa: 30
  funding: 90
  digital_transformation: 60
  competitor_tool: 120
  recently_hired: 45
  buyer_intent: 14
  leadership_change: 60
freshness_days: 30
`))
	if err != nil {
		t.Fatalf("parse candidate config: %v", err)
	}
	return cfg
}

func TestCompareConfigsReproducible(t *testing.T) {
	arts := fixtureSet(50)
	cfgA := Default()
	cfgB := shiftedConfig(t)

	c1, err := CompareConfigs(cfgA, cfgB, arts, testNow)
	if err != nil {
		t.Fatalf("CompareConfigs: %v", err)
	}
	c2, err := CompareConfigs(cfgA, cfgB, arts, testNow)
	if err != nil {
		t.Fatalf("CompareConfigs: %v", err)
	}
	if diff := cmp.Diff(c1, c2); diff != "" {
		t.Errorf("comparison not reproducible (-first +second):\n%s", diff)
	}
	if len(c1.Rows) != 50 {
		t.Errorf("rows = %d, want 50", len(c1.Rows))
	}
}

func TestCompareConfigsDelta(t *testing.T) {
	arts := fixtureSet(50)
	cfgA := Default()
	cfgB := shiftedConfig(t)

	c, err := CompareConfigs(cfgA, cfgB, arts, testNow)
	if err != nil {
		t.Fatalf("CompareConfigs: %v", err)
	}

	// The configs differ only in pain vs intent weighting: artifacts
	// with no pain and no signals must be unaffected.
	for _, row := range c.Rows {
		if row.Delta != round2(row.TotalB-row.TotalA) {
			t.Errorf("row %s: delta %v inconsistent with totals", row.ArtifactID, row.Delta)
		}
	}

	same, err := CompareConfigs(cfgA, cfgA, arts, testNow)
	if err != nil {
		t.Fatalf("CompareConfigs identity: %v", err)
	}
	if same.MeanDelta != 0 || same.Upgrades != 0 || same.Downgrades != 0 {
		t.Errorf("identity comparison moved scores: mean=%v up=%d down=%d",
			same.MeanDelta, same.Upgrades, same.Downgrades)
	}
	if same.MaxAbsDelta() != 0 {
		t.Errorf("identity comparison max delta = %v, want 0", same.MaxAbsDelta())
	}
}

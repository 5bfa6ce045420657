package score

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cadence/internal/artifact"
)

// ComparisonRow is one artifact's side-by-side outcome under two configs.
type ComparisonRow struct {
	ArtifactID string  `json:"artifact_id"`
	ContactID  string  `json:"contact_id"`
	TotalA     float64 `json:"total_a"`
	TotalB     float64 `json:"total_b"`
	Delta      float64 `json:"delta"` // B - A
	TierA      Tier    `json:"tier_a"`
	TierB      Tier    `json:"tier_b"`
}

// Comparison is the delta table produced by CompareConfigs.
type Comparison struct {
	VersionA   string          `json:"version_a"`
	VersionB   string          `json:"version_b"`
	Rows       []ComparisonRow `json:"rows"`
	MeanDelta  float64         `json:"mean_delta"`
	Upgrades   int             `json:"upgrades"`   // tier moved up under B
	Downgrades int             `json:"downgrades"` // tier moved down under B
}

var tierRank = map[Tier]int{TierCold: 0, TierCool: 1, TierWarm: 2, TierHot: 3}

// CompareConfigs scores the same artifact set under two configurations
// at the same timestamp and returns the delta table. Pure and
// reproducible: no store writes, no adoption of either config.
func CompareConfigs(cfgA, cfgB *Config, artifacts []*artifact.ResearchArtifact, now time.Time) (*Comparison, error) {
	cmp := &Comparison{VersionA: cfgA.Version, VersionB: cfgB.Version}

	var sum float64
	for _, a := range artifacts {
		ra, err := FromArtifact(a, cfgA, now)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", cfgA.Version, err)
		}
		rb, err := FromArtifact(a, cfgB, now)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", cfgB.Version, err)
		}

		row := ComparisonRow{
			ArtifactID: a.ID,
			ContactID:  a.Contact.ID,
			TotalA:     ra.Total,
			TotalB:     rb.Total,
			Delta:      round2(rb.Total - ra.Total),
			TierA:      ra.Tier,
			TierB:      rb.Tier,
		}
		cmp.Rows = append(cmp.Rows, row)
		sum += row.Delta

		switch {
		case tierRank[rb.Tier] > tierRank[ra.Tier]:
			cmp.Upgrades++
		case tierRank[rb.Tier] < tierRank[ra.Tier]:
			cmp.Downgrades++
		}
	}

	if len(cmp.Rows) > 0 {
		cmp.MeanDelta = round2(sum / float64(len(cmp.Rows)))
	}
	return cmp, nil
}

// Format renders the comparison as an aligned text table.
func (c *Comparison) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "weight comparison %s -> %s (%d artifacts)\n", c.VersionA, c.VersionB, len(c.Rows))
	fmt.Fprintf(&b, "mean delta %+.2f, %d upgrades, %d downgrades\n\n", c.MeanDelta, c.Upgrades, c.Downgrades)
	fmt.Fprintf(&b, "%-38s %8s %8s %8s  %s\n", "contact", "A", "B", "delta", "tier")
	for _, r := range c.Rows {
		tier := string(r.TierA)
		if r.TierA != r.TierB {
			tier = fmt.Sprintf("%s -> %s", r.TierA, r.TierB)
		}
		fmt.Fprintf(&b, "%-38s %8.2f %8.2f %+8.2f  %s\n", r.ContactID, r.TotalA, r.TotalB, r.Delta, tier)
	}
	return b.String()
}

// MaxAbsDelta returns the largest absolute per-artifact shift, useful as
// a guardrail before adopting a new config.
func (c *Comparison) MaxAbsDelta() float64 {
	max := 0.0
	for _, r := range c.Rows {
		if d := math.Abs(r.Delta); d > max {
			max = d
		}
	}
	return max
}

package score

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"cadence/internal/artifact"
)

// Result is one scoring outcome for (artifact, config version, timestamp).
// Results are versioned rows; rescoring creates a new Result, never a
// mutation.
type Result struct {
	ID             string             `json:"id"`
	ArtifactID     string             `json:"artifact_id"`
	ContactID      string             `json:"contact_id"`
	Total          float64            `json:"total"` // in [0,100]
	Tier           Tier               `json:"tier"`
	FeatureScores  map[string]float64 `json:"feature_scores"`  // normalized sub-scores in [0,1]
	FeatureWeights map[string]float64 `json:"feature_weights"` // config snapshot, sums to 100
	ConfigVersion  string             `json:"config_version"`
	Reasons        []string           `json:"reasons,omitempty"`
	DecayApplied   []DecayEntry       `json:"decay_applied,omitempty"`
	ScoredAt       time.Time          `json:"scored_at"`
}

// FromArtifact scores an artifact under a validated config at the given
// timestamp. The artifact's evidence discipline is re-checked first:
// scoring fails closed on an uncited claim rather than scoring it.
func FromArtifact(a *artifact.ResearchArtifact, cfg *Config, now time.Time) (*Result, error) {
	if cfg == nil {
		return nil, &ConfigError{Detail: "nil config"}
	}
	if err := artifact.Validate(a); err != nil {
		return nil, fmt.Errorf("score %s: %w", a.ID, err)
	}

	r := &Result{
		ID:             uuid.NewString(),
		ArtifactID:     a.ID,
		ContactID:      a.Contact.ID,
		FeatureScores:  make(map[string]float64, len(FeatureNames)),
		FeatureWeights: make(map[string]float64, len(FeatureNames)),
		ConfigVersion:  cfg.Version,
		ScoredAt:       now,
	}

	total := 0.0
	for _, name := range FeatureNames {
		fv := features[name](a, cfg, now)
		r.FeatureScores[name] = round4(fv.Score)
		r.FeatureWeights[name] = cfg.Weights[name]
		total += cfg.Weights[name] * fv.Score
		if fv.Score > 0 && fv.Reason != "" {
			r.Reasons = append(r.Reasons, name+": "+fv.Reason)
		}
		r.DecayApplied = append(r.DecayApplied, fv.Decay...)
	}

	r.Total = round2(math.Min(100, math.Max(0, total)))
	r.Tier = cfg.TierFor(r.Total)
	return r, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

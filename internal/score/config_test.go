package score

import (
	"errors"
	"testing"
)

func validYAML() []byte {
	return []byte(`
version: test
weights:
  title_seniority: 20
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 20
  intent_signal: 15
  data_quality: 10
tiers:
  hot: 80
  warm: 60
  cool: 35
half_life_days:
  hiring_qa: 30
freshness_days: 30
`)
}

func TestParseValid(t *testing.T) {
	cfg, err := Parse(validYAML())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sum := 0.0
	for _, w := range cfg.Weights {
		sum += w
	}
	if sum != 100 {
		t.Errorf("weights sum = %v, want 100", sum)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "weights not summing to 100",
			yaml: `
version: test
weights:
  title_seniority: 25
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 20
  intent_signal: 15
  data_quality: 10
tiers: {hot: 80, warm: 60, cool: 35}
half_life_days: {hiring_qa: 30}
freshness_days: 30
`,
		},
		{
			name: "missing feature",
			yaml: `
version: test
weights:
  title_seniority: 30
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 20
  intent_signal: 15
tiers: {hot: 80, warm: 60, cool: 35}
half_life_days: {hiring_qa: 30}
freshness_days: 30
`,
		},
		{
			name: "unknown extra feature",
			yaml: `
version: test
weights:
  title_seniority: 20
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 20
  intent_signal: 10
  data_quality: 10
  astrology_alignment: 5
tiers: {hot: 80, warm: 60, cool: 35}
half_life_days: {hiring_qa: 30}
freshness_days: 30
`,
		},
		{
			name: "overlapping tiers",
			yaml: `
version: test
weights:
  title_seniority: 20
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 20
  intent_signal: 15
  data_quality: 10
tiers: {hot: 60, warm: 60, cool: 35}
half_life_days: {hiring_qa: 30}
freshness_days: 30
`,
		},
		{
			name: "negative half-life",
			yaml: `
version: test
weights:
  title_seniority: 20
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 20
  intent_signal: 15
  data_quality: 10
tiers: {hot: 80, warm: 60, cool: 35}
half_life_days: {hiring_qa: -5}
freshness_days: 30
`,
		},
		{
			name: "missing version",
			yaml: `
weights:
  title_seniority: 20
  function_match: 10
  company_size_fit: 10
  industry_fit: 15
  pain_confidence: 20
  intent_signal: 15
  data_quality: 10
tiers: {hot: 80, warm: 60, cool: 35}
half_life_days: {hiring_qa: 30}
freshness_days: 30
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Parse = %v, want *ConfigError", err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := Default()
	if cfg.Version == "" {
		t.Error("default config has no version")
	}
	if cfg.TierFor(85) != TierHot || cfg.TierFor(70) != TierWarm ||
		cfg.TierFor(40) != TierCool || cfg.TierFor(10) != TierCold {
		t.Error("default tier thresholds misbehave")
	}
}

func TestTierBoundaries(t *testing.T) {
	cfg, err := Parse(validYAML())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tests := []struct {
		total float64
		want  Tier
	}{
		{100, TierHot},
		{80, TierHot},
		{79.99, TierWarm},
		{60, TierWarm},
		{59.99, TierCool},
		{35, TierCool},
		{34.99, TierCold},
		{0, TierCold},
	}
	for _, tt := range tests {
		if got := cfg.TierFor(tt.total); got != tt.want {
			t.Errorf("TierFor(%v) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestHalfLifeFallback(t *testing.T) {
	cfg := Default()
	known := cfg.HalfLife("hiring_qa")
	if known != 30 {
		t.Errorf("HalfLife(hiring_qa) = %v, want 30", known)
	}
	// Unknown types decay at the slowest configured rate.
	unknown := cfg.HalfLife("mystery_signal")
	for _, d := range cfg.HalfLifeDays {
		if unknown < d {
			t.Fatalf("HalfLife(unknown) = %v, slower than configured %v", unknown, d)
		}
	}
}

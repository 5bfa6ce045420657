// Package score turns a research artifact plus a weight configuration
// into a bounded, tiered, reproducible priority score. Scoring is a pure
// function of (artifact, config, timestamp): decay derives from elapsed
// time only, never from hidden state.
package score

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed weights.yaml
var defaultWeightsYAML []byte

// Feature names. A config must weight exactly this set.
const (
	FeatureTitleSeniority = "title_seniority"
	FeatureFunctionMatch  = "function_match"
	FeatureCompanySize    = "company_size_fit"
	FeatureIndustryFit    = "industry_fit"
	FeaturePainConfidence = "pain_confidence"
	FeatureIntentSignal   = "intent_signal"
	FeatureDataQuality    = "data_quality"
)

// FeatureNames lists all scoring features in stable order.
var FeatureNames = []string{
	FeatureTitleSeniority,
	FeatureFunctionMatch,
	FeatureCompanySize,
	FeatureIndustryFit,
	FeaturePainConfidence,
	FeatureIntentSignal,
	FeatureDataQuality,
}

// Tier is the coarse priority bucket derived from the numeric score.
type Tier string

const (
	TierHot  Tier = "hot"
	TierWarm Tier = "warm"
	TierCool Tier = "cool"
	TierCold Tier = "cold"
)

// TierThresholds are the lower score bounds for each tier above cold.
// Must be strictly decreasing: hot > warm > cool.
type TierThresholds struct {
	Hot  float64 `yaml:"hot"`
	Warm float64 `yaml:"warm"`
	Cool float64 `yaml:"cool"`
}

// ConfigError reports an invalid weight configuration. Fatal at load;
// a bad config is never silently normalized.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return "scoring config: " + e.Detail
}

// Config is an immutable, validated weight-configuration snapshot.
// Reload by calling Load again; every ScoringResult records the Version
// it was produced with.
type Config struct {
	Version       string             `yaml:"version"`
	Weights       map[string]float64 `yaml:"weights"`
	Tiers         TierThresholds     `yaml:"tiers"`
	HalfLifeDays  map[string]float64 `yaml:"half_life_days"`
	FreshnessDays float64            `yaml:"freshness_days"`
}

// Load reads and validates a weight configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weight config: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(defaultWeightsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded weight config invalid: %v", err))
	}
	return cfg
}

// Parse unmarshals and validates a weight configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse weight config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Version == "" {
		return &ConfigError{Detail: "version is required"}
	}

	sum := 0.0
	for _, name := range FeatureNames {
		w, ok := c.Weights[name]
		if !ok {
			return &ConfigError{Detail: fmt.Sprintf("missing weight for feature %q", name)}
		}
		if w < 0 {
			return &ConfigError{Detail: fmt.Sprintf("weight %q is negative: %v", name, w)}
		}
		sum += w
	}
	if len(c.Weights) != len(FeatureNames) {
		extra := make([]string, 0, 1)
		known := map[string]bool{}
		for _, n := range FeatureNames {
			known[n] = true
		}
		for n := range c.Weights {
			if !known[n] {
				extra = append(extra, n)
			}
		}
		sort.Strings(extra)
		return &ConfigError{Detail: fmt.Sprintf("unknown features: %v", extra)}
	}
	if math.Abs(sum-100) > 1e-9 {
		return &ConfigError{Detail: fmt.Sprintf("weights sum to %v, must sum to 100", sum)}
	}

	t := c.Tiers
	if !(t.Hot > t.Warm && t.Warm > t.Cool && t.Cool > 0) {
		return &ConfigError{Detail: fmt.Sprintf(
			"tier thresholds must satisfy hot > warm > cool > 0, got hot=%v warm=%v cool=%v",
			t.Hot, t.Warm, t.Cool)}
	}
	if t.Hot > 100 {
		return &ConfigError{Detail: fmt.Sprintf("hot threshold %v exceeds 100", t.Hot)}
	}

	for sig, days := range c.HalfLifeDays {
		if days <= 0 {
			return &ConfigError{Detail: fmt.Sprintf("half-life for %q must be positive, got %v", sig, days)}
		}
	}
	if c.FreshnessDays <= 0 {
		return &ConfigError{Detail: fmt.Sprintf("freshness_days must be positive, got %v", c.FreshnessDays)}
	}

	return nil
}

// TierFor maps a total score onto its tier.
func (c *Config) TierFor(total float64) Tier {
	switch {
	case total >= c.Tiers.Hot:
		return TierHot
	case total >= c.Tiers.Warm:
		return TierWarm
	case total >= c.Tiers.Cool:
		return TierCool
	default:
		return TierCold
	}
}

// HalfLife returns the configured half-life in days for a signal type,
// falling back to the slowest configured decay for unknown types so an
// unmapped signal never decays faster than a mapped one.
func (c *Config) HalfLife(signalType string) float64 {
	if d, ok := c.HalfLifeDays[signalType]; ok {
		return d
	}
	slowest := 0.0
	for _, d := range c.HalfLifeDays {
		if d > slowest {
			slowest = d
		}
	}
	if slowest == 0 {
		return 365
	}
	return slowest
}

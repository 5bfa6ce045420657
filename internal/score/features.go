package score

import (
	"fmt"
	"strings"
	"time"

	"cadence/internal/artifact"
)

// featureValue is one feature's normalized sub-score in [0,1] plus its
// human-readable justification and any decay audit entries.
type featureValue struct {
	Score  float64
	Reason string
	Decay  []DecayEntry
}

type featureFunc func(a *artifact.ResearchArtifact, cfg *Config, now time.Time) featureValue

// features is the scoring registry. Iterated via FeatureNames for
// deterministic order.
var features = map[string]featureFunc{
	FeatureTitleSeniority: featureTitleSeniority,
	FeatureFunctionMatch:  featureFunctionMatch,
	FeatureCompanySize:    featureCompanySize,
	FeatureIndustryFit:    featureIndustryFit,
	FeaturePainConfidence: featurePainConfidence,
	FeatureIntentSignal:   featureIntentSignal,
	FeatureDataQuality:    featureDataQuality,
}

// titlePoints maps title substrings to ICP points (0-3).
var titlePoints = map[string]int{
	// Primary: QA-titled leaders.
	"qa manager": 3, "qa lead": 3, "director of qa": 3, "head of qa": 3,
	"vp quality": 3, "vp quality engineering": 3, "sr director quality": 3,
	"director quality engineering": 3, "director of quality engineering": 3,
	"director of quality": 3, "head of quality": 3,
	"quality engineering manager": 3, "quality assurance": 3,
	// Secondary: engineering leaders.
	"software eng manager": 2, "vp engineering": 2, "vp software engineering": 2,
	"cto": 2, "director of engineering": 2, "director engineering": 2,
	// Influencers: technical ICs.
	"senior sdet": 1, "automation lead": 1, "qa architect": 1, "test architect": 1,
	"sdet lead": 1, "principal sdet": 1, "test lead": 1,
}

func featureTitleSeniority(a *artifact.ResearchArtifact, _ *Config, _ time.Time) featureValue {
	title := strings.ToLower(a.Contact.Title)
	points := 0
	for key, p := range titlePoints {
		if strings.Contains(title, key) && p > points {
			points = p
		}
	}
	if points == 0 {
		// No title-map hit; fall back to the seniority level.
		switch a.Contact.Seniority {
		case "c-suite", "vp", "director":
			points = 2
		case "manager", "senior":
			points = 1
		}
	}
	if points == 0 {
		return featureValue{}
	}
	return featureValue{
		Score:  float64(points) / 3,
		Reason: fmt.Sprintf("title %q rates %d/3 against the ICP title map", a.Contact.Title, points),
	}
}

func featureFunctionMatch(a *artifact.ResearchArtifact, _ *Config, _ time.Time) featureValue {
	var score float64
	switch a.Contact.Function {
	case "QA/Testing":
		score = 1.0
	case "Engineering":
		score = 0.6
	case "DevOps/Platform":
		score = 0.4
	case "Product":
		score = 0.2
	}
	if score == 0 {
		return featureValue{}
	}
	return featureValue{
		Score:  score,
		Reason: fmt.Sprintf("function %s matches the buying committee", a.Contact.Function),
	}
}

func featureCompanySize(a *artifact.ResearchArtifact, _ *Config, _ time.Time) featureValue {
	emp := a.Account.Employees
	var score float64
	switch {
	case emp >= 201 && emp <= 5000:
		score = 1.0
	case emp >= 51 && emp <= 200:
		score = 0.5
	case emp > 5000 && emp <= 50000:
		score = 0.5
	}
	if score == 0 {
		return featureValue{}
	}
	return featureValue{
		Score:  score,
		Reason: fmt.Sprintf("company size %d fits the target band", emp),
	}
}

// industryPoints maps industry substrings to ICP points (0-2).
var industryPoints = map[string]int{
	"saas": 2, "fintech": 2, "healthcare": 2, "digital health": 2,
	"financial services": 2, "banking": 2,
	"retail": 1, "e-commerce": 1, "telecom": 1, "pharma": 1, "insurance": 1,
}

func featureIndustryFit(a *artifact.ResearchArtifact, _ *Config, _ time.Time) featureValue {
	industry := strings.ToLower(a.Account.Industry + " " + a.Account.Vertical)
	points := 0
	for key, p := range industryPoints {
		if strings.Contains(industry, key) && p > points {
			points = p
		}
	}
	if points == 0 {
		return featureValue{}
	}
	return featureValue{
		Score:  float64(points) / 2,
		Reason: fmt.Sprintf("industry %q rates %d/2 against target verticals", a.Account.Industry, points),
	}
}

func featurePainConfidence(a *artifact.ResearchArtifact, _ *Config, _ time.Time) featureValue {
	best, ok := a.BestPain()
	if !ok {
		// Uncited low-confidence hypotheses still count, discounted.
		for _, p := range a.Pains {
			if p.Confidence > best.Confidence {
				best = p
				ok = true
			}
		}
		if !ok {
			return featureValue{}
		}
		return featureValue{
			Score:  best.Confidence * 0.5,
			Reason: fmt.Sprintf("uncited pain hypothesis %q at %.2f confidence (discounted)", best.Label, best.Confidence),
		}
	}
	return featureValue{
		Score:  best.Confidence,
		Reason: fmt.Sprintf("pain %q at %.2f confidence with evidence", best.Label, best.Confidence),
	}
}

// signalStrength is the undecayed contribution of each signal type.
var signalStrength = map[artifact.SignalType]float64{
	artifact.SignalBuyerIntent:    1.0,
	artifact.SignalTransformation: 0.9,
	artifact.SignalCompetitorTool: 0.8,
	artifact.SignalHiringQA:       0.7,
	artifact.SignalFunding:        0.6,
	artifact.SignalLeadership:     0.5,
	artifact.SignalRecentlyHired:  0.5,
}

func featureIntentSignal(a *artifact.ResearchArtifact, cfg *Config, now time.Time) featureValue {
	if len(a.Signals) == 0 {
		return featureValue{}
	}

	var total float64
	var decays []DecayEntry
	var strongest string
	var strongestVal float64

	for _, s := range a.Signals {
		base := signalStrength[s.Type]
		if base == 0 {
			continue
		}
		factor := DecayFactor(now.Sub(s.ObservedAt), cfg.HalfLife(string(s.Type)))
		contribution := base * factor
		total += contribution
		if factor < 1 {
			decays = append(decays, DecayEntry{
				SignalType: string(s.Type),
				ObservedAt: s.ObservedAt,
				Factor:     factor,
			})
		}
		if contribution > strongestVal {
			strongestVal = contribution
			strongest = string(s.Type)
		}
	}
	if total > 1 {
		total = 1
	}
	if total == 0 {
		return featureValue{Decay: decays}
	}
	return featureValue{
		Score:  total,
		Reason: fmt.Sprintf("%d intent signals, strongest %s", len(a.Signals), strongest),
		Decay:  decays,
	}
}

func featureDataQuality(a *artifact.ResearchArtifact, _ *Config, _ time.Time) featureValue {
	if a.DataQuality.Score == 0 {
		return featureValue{}
	}
	return featureValue{
		Score:  a.DataQuality.Score,
		Reason: fmt.Sprintf("research completeness %.2f", a.DataQuality.Score),
	}
}

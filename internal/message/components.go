package message

import (
	"math"
	"regexp"
	"strings"

	"cadence/internal/artifact"
)

// ComponentScore grades one building block of a message on a 0-1 scale.
type ComponentScore struct {
	Component string   `json:"component"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons,omitempty"`
}

// ComponentReport is the per-component breakdown for a variant.
type ComponentReport struct {
	Overall     float64          `json:"overall_score"`
	Components  []ComponentScore `json:"components"`
	Weakest     string           `json:"weakest"`
	Suggestions []string         `json:"improvement_suggestions,omitempty"`
	Tone        Tone             `json:"tone"`
}

var (
	strongOpenerSignals = []string{
		"your work", "your team", "your role", "congrats",
		"stood out", "caught my attention", "got me thinking",
	}
	weakOpenerSignals = []string{
		"i hope", "i wanted to", "just reaching out",
		"my name is", "i'm reaching out",
	}
	openerPersonalization = regexp.MustCompile(`at [A-Z]|your \w+ team|as [A-Z]`)
	painCompanyRef        = regexp.MustCompile(`at [A-Z][a-z]+`)
	quantifiedImpact      = regexp.MustCompile(`\d+[%xX]|\d+,\d+|\d+ (times|days|weeks|hours|minutes)`)
	timeAnchor            = regexp.MustCompile(`\d+ minute`)
)

// ScoreOpener grades an opener on personalization, specificity, and
// length. Uncited openers lose points up front.
func ScoreOpener(opener string, hasEvidence bool) ComponentScore {
	score := 0.5
	var reasons []string
	lowered := strings.ToLower(opener)

	if !hasEvidence {
		score -= 0.2
		reasons = append(reasons, "no evidence backing")
	}
	for _, sig := range strongOpenerSignals {
		if strings.Contains(lowered, sig) {
			score += 0.15
			reasons = append(reasons, "strong signal: '"+sig+"'")
			break
		}
	}
	for _, sig := range weakOpenerSignals {
		if strings.Contains(lowered, sig) {
			score -= 0.2
			reasons = append(reasons, "weak signal: '"+sig+"'")
			break
		}
	}
	if openerPersonalization.MatchString(opener) {
		score += 0.1
		reasons = append(reasons, "contains personalization")
	}

	switch n := wordCount(opener); {
	case n < 4:
		score -= 0.1
		reasons = append(reasons, "too short")
	case n > 25:
		score -= 0.1
		reasons = append(reasons, "too long for opener")
	}

	return ComponentScore{Component: "opener", Score: clamp01(score), Reasons: reasons}
}

// ScorePain grades a pain hypothesis on specificity.
func ScorePain(pain string, hasToolRef, isQuestion bool) ComponentScore {
	score := 0.5
	var reasons []string
	lowered := strings.ToLower(pain)

	if hasToolRef {
		score += 0.15
		reasons = append(reasons, "references specific tool")
	}
	if isQuestion {
		score += 0.1
		reasons = append(reasons, "question framing")
	}
	for _, word := range []string{"regression", "flaky", "maintenance", "ci/cd", "pipeline"} {
		if strings.Contains(lowered, word) {
			score += 0.1
			reasons = append(reasons, "specific pain area referenced")
			break
		}
	}
	if painCompanyRef.MatchString(pain) {
		score += 0.1
		reasons = append(reasons, "company-specific reference")
	}
	if !hasToolRef {
		for _, phrase := range []string{"test automation", "testing challenges", "software quality"} {
			if strings.Contains(lowered, phrase) {
				score -= 0.1
				reasons = append(reasons, "generic pain framing")
				break
			}
		}
	}

	return ComponentScore{Component: "pain", Score: clamp01(score), Reasons: reasons}
}

// ScoreProofBridge grades the customer story plus its connective tissue.
func ScoreProofBridge(proof, bridge string, hasMetric bool) ComponentScore {
	score := 0.5
	var reasons []string

	if hasMetric {
		score += 0.15
		reasons = append(reasons, "contains metric")
	}
	if quantifiedImpact.MatchString(proof) {
		score += 0.1
		reasons = append(reasons, "quantified impact")
	}
	if bridge != "" {
		score += 0.1
		reasons = append(reasons, "has bridge to prospect context")
		lb := strings.ToLower(bridge)
		if strings.Contains(lb, "similar") || strings.Contains(lb, "same") {
			score += 0.05
			reasons = append(reasons, "draws parallel to prospect")
		}
	} else {
		reasons = append(reasons, "no bridge (proof point stands alone)")
	}

	return ComponentScore{Component: "proof_bridge", Score: clamp01(score), Reasons: reasons}
}

// ScoreCTA grades the ask on clarity and pressure level.
func ScoreCTA(cta string) ComponentScore {
	score := 0.5
	var reasons []string
	lowered := strings.ToLower(cta)

	if timeAnchor.MatchString(lowered) {
		score += 0.15
		reasons = append(reasons, "time-anchored")
	}
	for _, phrase := range []string{"no worries", "no pressure", "if not"} {
		if strings.Contains(lowered, phrase) {
			score += 0.1
			reasons = append(reasons, "has easy out")
			break
		}
	}
	if strings.Contains(cta, "?") {
		score += 0.05
		reasons = append(reasons, "question format")
	}
	for _, word := range []string{"that", "similar", "same"} {
		if strings.Contains(lowered, word) {
			score += 0.1
			reasons = append(reasons, "references proof point")
			break
		}
	}
	for _, word := range []string{"must", "need to", "should", "urgent", "asap"} {
		if strings.Contains(lowered, word) {
			score -= 0.2
			reasons = append(reasons, "pushy language detected")
			break
		}
	}

	return ComponentScore{Component: "cta", Score: clamp01(score), Reasons: reasons}
}

// ScoreComponents breaks a variant into its building blocks, grades
// each, and names the weakest with a concrete fix. Diagnostic only: it
// never rewrites the variant.
func ScoreComponents(v *Variant, a *artifact.ResearchArtifact, c *Catalog) ComponentReport {
	var tools []string
	if a != nil {
		for _, t := range a.TechStack {
			tools = append(tools, strings.ToLower(t.Tool))
		}
	}
	hasTool := false
	for _, tool := range tools {
		if strings.Contains(strings.ToLower(v.Opener), tool) || strings.Contains(strings.ToLower(v.PainHook), tool) {
			hasTool = true
			break
		}
	}

	proofText := ""
	if c != nil && v.ProofPointKey != "" {
		if pp, ok := c.ProofPoints[v.ProofPointKey]; ok {
			proofText = pp.Text
		}
	}

	components := []ComponentScore{
		ScoreOpener(v.Opener, v.OpenerEvidence != ""),
		ScorePain(v.PainHook, hasTool, strings.HasSuffix(strings.TrimSpace(v.PainHook), "?")),
		ScoreProofBridge(proofText, "", proofText != ""),
		ScoreCTA(v.CTA),
	}

	sum := 0.0
	weakest := components[0]
	for _, cs := range components {
		sum += cs.Score
		if cs.Score < weakest.Score {
			weakest = cs
		}
	}

	var suggestions []string
	if weakest.Score < 0.6 {
		switch weakest.Component {
		case "opener":
			suggestions = append(suggestions, "strengthen the opener with more specific personalization")
		case "pain":
			suggestions = append(suggestions, "make the pain hypothesis more specific (mention tools or workflows)")
		case "proof_bridge":
			suggestions = append(suggestions, "add a bridge connecting the proof point to the prospect's context")
		case "cta":
			suggestions = append(suggestions, "add a time anchor to the CTA (e.g. '15 minutes')")
		}
	}

	return ComponentReport{
		Overall:     math.Round(sum/float64(len(components))*100) / 100,
		Components:  components,
		Weakest:     weakest.Component,
		Suggestions: suggestions,
		Tone:        v.Tone,
	}
}

func clamp01(f float64) float64 {
	f = math.Round(f*100) / 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

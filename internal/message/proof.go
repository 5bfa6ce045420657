package message

import (
	"strings"

	"cadence/internal/artifact"
)

// SelectedProofPoint is a catalog entry plus its key.
type SelectedProofPoint struct {
	Key string
	ProofPoint
}

// SelectProofPoint picks the best catalog proof point for the artifact:
// +3 for a vertical match, +2 per known tool match, +1 per pain tag
// match. Keys in exclude are skipped, which is how rotation across
// touches is enforced (exclusions come from the touchpoint log, not
// from regenerated state). Ties resolve by key order so selection is
// deterministic.
func SelectProofPoint(c *Catalog, a *artifact.ResearchArtifact, exclude map[string]bool) (SelectedProofPoint, bool) {
	vertical := strings.ToLower(a.Account.Vertical)
	industry := strings.ToLower(a.Account.Industry)

	var tools []string
	for _, t := range a.TechStack {
		tools = append(tools, strings.ToLower(t.Tool))
	}
	var painLabels []string
	for _, p := range a.Pains {
		painLabels = append(painLabels, strings.ToLower(p.Label))
	}

	bestKey := ""
	bestScore := -1
	for _, key := range c.Keys() {
		if exclude[key] {
			continue
		}
		pp := c.ProofPoints[key]
		bestFor := strings.ToLower(strings.Join(pp.BestFor, " "))

		score := 0
		if vertical != "" && strings.Contains(bestFor, vertical) {
			score += 3
		} else if industry != "" && strings.Contains(bestFor, industry) {
			score += 3
		}
		for _, tool := range tools {
			if strings.Contains(bestFor, tool) {
				score += 2
			}
		}
		for _, pain := range painLabels {
			for _, tag := range pp.BestFor {
				if strings.Contains(pain, strings.ToLower(tag)) {
					score++
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestKey == "" {
		return SelectedProofPoint{}, false
	}
	return SelectedProofPoint{Key: bestKey, ProofPoint: c.ProofPoints[bestKey]}, true
}

// bridgePhrase connects a proof point to the prospect's situation.
func bridgePhrase(ppText string, a *artifact.ResearchArtifact, tools []string) string {
	competitor := ""
	for _, t := range tools {
		switch strings.ToLower(t) {
		case "selenium", "cypress", "playwright", "katalon", "testcomplete":
			competitor = t
		}
		if competitor != "" {
			break
		}
	}

	if competitor != "" && !strings.Contains(strings.ToLower(ppText), strings.ToLower(competitor)) {
		return " after a similar switch"
	}
	if competitor == "" && a.Account.Industry != "" {
		short := a.Account.Industry
		short = strings.SplitN(short, "/", 2)[0]
		short = strings.SplitN(short, ",", 2)[0]
		return " in a similar " + strings.ToLower(strings.TrimSpace(short)) + " environment"
	}
	return ""
}

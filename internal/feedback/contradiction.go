package feedback

import (
	"strings"

	"cadence/internal/artifact"
)

// Contradiction is a statement in a reply that conflicts with a fact in
// the research artifact. Contradictions are surfaced for review and
// recorded as corrections; the artifact itself is never rewritten.
type Contradiction struct {
	Field      string  `json:"field"`
	Assumption string  `json:"our_assumption"`
	Suggests   string  `json:"reply_suggests"`
	Original   string  `json:"original_value"`
	Corrected  string  `json:"corrected_value"`
	Confidence float64 `json:"confidence"`
}

var rivalTools = []string{
	"selenium", "cypress", "playwright", "tosca", "katalon", "testim", "mabl",
}

// DetectContradictions scans a reply for statements that conflict with
// the artifact's tech stack or role fit.
func DetectContradictions(replyText string, a *artifact.ResearchArtifact) []Contradiction {
	if a == nil {
		return nil
	}
	text := strings.ToLower(replyText)
	var out []Contradiction

	for _, t := range a.TechStack {
		tool := strings.ToLower(t.Tool)

		negations := []string{
			"don't use " + tool, "do not use " + tool,
			"not using " + tool, "stopped using " + tool,
			"moved away from " + tool, "migrated from " + tool,
			"no longer use " + tool,
		}
		for _, pattern := range negations {
			if strings.Contains(text, pattern) {
				out = append(out, Contradiction{
					Field:      "tech_stack",
					Assumption: "uses " + t.Tool,
					Suggests:   "does not use " + t.Tool,
					Original:   t.Tool,
					Corrected:  "",
					Confidence: 0.8,
				})
				break
			}
		}

		for _, other := range rivalTools {
			if other == tool {
				continue
			}
			if strings.Contains(text, "we use "+other) || strings.Contains(text, "using "+other) {
				out = append(out, Contradiction{
					Field:      "tech_stack",
					Assumption: "uses " + t.Tool,
					Suggests:   "actually uses " + other,
					Original:   t.Tool,
					Corrected:  other,
					Confidence: 0.7,
				})
			}
		}
	}

	for _, phrase := range []string{
		"wrong person", "not my area", "don't handle", "not responsible", "try reaching",
	} {
		if strings.Contains(text, phrase) {
			out = append(out, Contradiction{
				Field:      "role_fit",
				Assumption: "responsible for test automation decisions",
				Suggests:   "may not be the right contact",
				Original:   a.Contact.Function,
				Corrected:  "",
				Confidence: 0.7,
			})
			break
		}
	}

	return out
}

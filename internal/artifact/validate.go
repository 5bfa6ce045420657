package artifact

import "fmt"

// Validate enforces the evidence discipline on a built artifact:
// every hook and tech-stack entry needs a non-empty evidence string,
// and any pain hypothesis above 0.7 confidence needs one too.
// Returns the first violation as an *EvidenceError.
func Validate(a *ResearchArtifact) error {
	for i, h := range a.Hooks {
		if h.Evidence == "" {
			return &EvidenceError{
				Field:  "hook",
				Detail: fmt.Sprintf("hooks[%d] %q has no evidence", i, truncate(h.Text, 50)),
			}
		}
	}
	for i, p := range a.Pains {
		if p.Confidence > 0.7 && p.Evidence == "" {
			return &EvidenceError{
				Field:  "pain",
				Detail: fmt.Sprintf("pains[%d] %q has confidence %.2f without evidence", i, p.Label, p.Confidence),
			}
		}
	}
	for i, t := range a.TechStack {
		if t.Evidence == "" {
			return &EvidenceError{
				Field:  "tech_stack",
				Detail: fmt.Sprintf("tech_stack[%d] %q has no evidence", i, t.Tool),
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

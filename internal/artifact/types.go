// Package artifact builds evidence-cited research artifacts from contact
// and account records plus cached research signals. An artifact is
// immutable once built; re-research produces a new artifact with a fresh
// ID rather than mutating the old one.
package artifact

import (
	"strings"
	"time"
)

// SignalType classifies a detected buying/context signal.
type SignalType string

const (
	SignalHiringQA       SignalType = "hiring_qa"
	SignalFunding        SignalType = "funding"
	SignalTransformation SignalType = "digital_transformation"
	SignalCompetitorTool SignalType = "competitor_tool"
	SignalRecentlyHired  SignalType = "recently_hired"
	SignalBuyerIntent    SignalType = "buyer_intent"
	SignalLeadership     SignalType = "leadership_change"
)

// Contact is the per-person input record.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Headline    string `json:"headline,omitempty"`
	About       string `json:"about,omitempty"`
	AccountID   string `json:"account_id"`
	Function    string `json:"function,omitempty"`  // inferred from title if empty
	Seniority   string `json:"seniority,omitempty"` // inferred from title if empty
	MonthsInRole int   `json:"months_in_role,omitempty"` // 0 = unknown
}

// Account is the per-company input record.
type Account struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Domain      string `json:"domain,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
	Vertical    string `json:"vertical,omitempty"` // classified if empty
	Employees   int    `json:"employees,omitempty"`
}

// Hook is one personalization angle with its citation.
type Hook struct {
	Text     string `json:"text"`
	Evidence string `json:"evidence"`
	Source   string `json:"source"` // e.g. "title", "headline", "job_posting"
}

// PainHypothesis is a suspected pain with a confidence and citation.
// Confidence above 0.7 requires a non-empty Evidence string.
type PainHypothesis struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// TechSignal is a detected tool in the account's stack.
type TechSignal struct {
	Tool     string `json:"tool"`
	Evidence string `json:"evidence"`
}

// Signal is a dated observation used for intent scoring and decay.
type Signal struct {
	Type       SignalType `json:"type"`
	ObservedAt time.Time  `json:"observed_at"`
	Payload    string     `json:"payload,omitempty"`
}

// ICPFit summarizes why the contact does or does not match the profile.
type ICPFit struct {
	Reasons       []string `json:"reasons,omitempty"`
	Disqualifiers []string `json:"disqualifiers,omitempty"`
}

// DataQuality is the derived completeness indicator. Score is the ratio
// of filled artifact fields; Dropped counts entries removed for missing
// evidence; Warnings carries non-blocking notes such as stale cache hits.
type DataQuality struct {
	Score    float64  `json:"score"`
	Dropped  int      `json:"dropped,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ResearchArtifact is one contact+account research snapshot.
type ResearchArtifact struct {
	ID          string           `json:"id"`
	Contact     Contact          `json:"contact"`
	Account     Account          `json:"account"`
	Hooks       []Hook           `json:"hooks,omitempty"`
	Pains       []PainHypothesis `json:"pains,omitempty"`
	TechStack   []TechSignal     `json:"tech_stack,omitempty"`
	Signals     []Signal         `json:"signals,omitempty"`
	ICPFit      ICPFit           `json:"icp_fit"`
	DataQuality DataQuality      `json:"data_quality"`
	BuiltAt     time.Time        `json:"built_at"`
}

// HasTool reports whether the artifact's tech stack lists the tool
// (case-insensitive).
func (a *ResearchArtifact) HasTool(tool string) bool {
	for _, t := range a.TechStack {
		if strings.EqualFold(t.Tool, tool) {
			return true
		}
	}
	return false
}

// BestPain returns the evidence-backed pain hypothesis with the highest
// confidence, or false if none exists.
func (a *ResearchArtifact) BestPain() (PainHypothesis, bool) {
	var best PainHypothesis
	found := false
	for _, p := range a.Pains {
		if p.Evidence == "" {
			continue
		}
		if !found || p.Confidence > best.Confidence {
			best = p
			found = true
		}
	}
	return best, found
}

// SignalsOfType returns all signals with the given type.
func (a *ResearchArtifact) SignalsOfType(t SignalType) []Signal {
	var out []Signal
	for _, s := range a.Signals {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

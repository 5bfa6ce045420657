package feedback

import (
	"testing"

	"cadence/internal/artifact"
)

func contradictionArtifact() *artifact.ResearchArtifact {
	return &artifact.ResearchArtifact{
		ID: "art-1",
		Contact: artifact.Contact{
			ID:       "c-1",
			Name:     "Jordan Reyes",
			Title:    "Director of Quality Engineering",
			Function: "quality_engineering",
		},
		Account: artifact.Account{ID: "acc-1", Name: "Billflow"},
		TechStack: []artifact.TechSignal{
			{Tool: "Selenium", Evidence: "job posting mentions Selenium grid"},
		},
	}
}

func TestDetectContradictions(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantField  string
		wantCount  int
		confidence float64
		corrected  string
	}{
		{
			name:       "tool negation",
			text:       "We actually don't use Selenium anymore.",
			wantField:  "tech_stack",
			wantCount:  1,
			confidence: 0.8,
			corrected:  "",
		},
		{
			name:       "migrated away",
			text:       "We migrated from selenium last year.",
			wantField:  "tech_stack",
			wantCount:  1,
			confidence: 0.8,
		},
		{
			name:       "rival tool in use",
			text:       "Thanks, but we use cypress for all of this.",
			wantField:  "tech_stack",
			wantCount:  1,
			confidence: 0.7,
			corrected:  "cypress",
		},
		{
			name:       "wrong person",
			text:       "I'm the wrong person for this, I don't own tooling.",
			wantField:  "role_fit",
			wantCount:  1,
			confidence: 0.7,
		},
		{
			name:      "no conflict",
			text:      "Interesting, send me more details.",
			wantCount: 0,
		},
	}

	a := contradictionArtifact()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectContradictions(tt.text, a)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d contradictions, want %d: %+v", len(got), tt.wantCount, got)
			}
			if tt.wantCount == 0 {
				return
			}
			c := got[0]
			if c.Field != tt.wantField {
				t.Errorf("field = %q, want %q", c.Field, tt.wantField)
			}
			if c.Confidence != tt.confidence {
				t.Errorf("confidence = %v, want %v", c.Confidence, tt.confidence)
			}
			if c.Corrected != tt.corrected {
				t.Errorf("corrected = %q, want %q", c.Corrected, tt.corrected)
			}
		})
	}
}

func TestDetectContradictionsNilArtifact(t *testing.T) {
	if got := DetectContradictions("we don't use selenium", nil); got != nil {
		t.Errorf("expected nil for missing artifact, got %+v", got)
	}
}

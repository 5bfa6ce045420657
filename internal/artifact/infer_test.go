package artifact

import (
	"math"
	"testing"
)

func TestClassifyVertical(t *testing.T) {
	tests := []struct {
		name        string
		description string
		industry    string
		want        string
	}{
		{"fintech keywords", "digital wallet and payments infrastructure", "", "FinTech"},
		{"banking industry", "", "Banking and financial services", "FinServ"},
		{"healthcare", "telehealth platform for patient intake", "", "Healthcare"},
		{"saas", "b2b software, enterprise software suite", "SaaS", "SaaS"},
		{"ecommerce", "online retail marketplace", "", "E-Commerce"},
		{"no match defaults to tech", "artisanal bakery", "", "Tech"},
		{"empty", "", "", "Tech"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyVertical(tt.description, tt.industry); got != tt.want {
				t.Errorf("ClassifyVertical(%q, %q) = %q, want %q", tt.description, tt.industry, got, tt.want)
			}
		})
	}
}

func TestClassifyVerticalDeterministic(t *testing.T) {
	// Map iteration must not leak into the result.
	first := ClassifyVertical("insurance claims software platform", "")
	for i := 0; i < 50; i++ {
		if got := ClassifyVertical("insurance claims software platform", ""); got != first {
			t.Fatalf("run %d: got %q, first run %q", i, got, first)
		}
	}
}

func TestInferFunction(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Director of Quality Engineering", "QA/Testing"},
		{"Senior SDET", "QA/Testing"},
		{"VP Engineering", "Engineering"},
		{"CTO", "Engineering"},
		{"Head of Platform", "DevOps/Platform"},
		{"Product Manager", "Product"},
		{"Chief People Officer", "Other"},
	}
	for _, tt := range tests {
		if got := InferFunction(tt.title); got != tt.want {
			t.Errorf("InferFunction(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestInferSeniority(t *testing.T) {
	tests := []struct {
		title    string
		explicit string
		want     string
	}{
		{"Chief Technology Officer", "", "c-suite"},
		{"VP of Quality", "", "vp"},
		{"Director of QA", "", "director"},
		{"Head of Testing", "", "director"},
		{"QA Manager", "", "manager"},
		{"Senior SDET", "", "senior"},
		{"QA Engineer", "", "individual"},
		{"QA Engineer", "Manager", "manager"}, // explicit field wins
	}
	for _, tt := range tests {
		if got := InferSeniority(tt.title, tt.explicit); got != tt.want {
			t.Errorf("InferSeniority(%q, %q) = %q, want %q", tt.title, tt.explicit, got, tt.want)
		}
	}
}

func TestPainLibraryBoost(t *testing.T) {
	lib := DefaultPainLibrary()

	plain := lib.PainsFor("SaaS", nil)
	boosted := lib.PainsFor("SaaS", []string{"Cypress"})
	if len(plain) == 0 || len(plain) != len(boosted) {
		t.Fatalf("PainsFor lengths: plain=%d boosted=%d", len(plain), len(boosted))
	}
	for i := range plain {
		diff := boosted[i].Confidence - plain[i].Confidence
		if math.Abs(diff-0.1) > 1e-9 && boosted[i].Confidence != 1.0 {
			t.Errorf("pain %q: boost = %.2f, want 0.1", plain[i].Label, diff)
		}
		if boosted[i].Evidence == "" {
			t.Errorf("pain %q: library pains must carry evidence", boosted[i].Label)
		}
	}
}

func TestPainLibraryUnknownVertical(t *testing.T) {
	lib := DefaultPainLibrary()
	if pains := lib.PainsFor("Aerospace", nil); pains != nil {
		t.Errorf("PainsFor(unknown) = %v, want nil", pains)
	}
}

package gate

import (
	"strings"
	"testing"
	"time"

	"cadence/internal/artifact"
	"cadence/internal/message"
	"cadence/internal/score"
)

var gateNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func gateArtifact() *artifact.ResearchArtifact {
	return &artifact.ResearchArtifact{
		ID: "art-1",
		Contact: artifact.Contact{
			ID:        "ct-1",
			Name:      "Jordan Reyes",
			Title:     "Director of Quality Engineering",
			Function:  "QA/Testing",
			Seniority: "director",
		},
		Account: artifact.Account{
			ID:        "acc-1",
			Name:      "Billflow",
			Industry:  "Financial Services",
			Vertical:  "FinTech",
			Employees: 800,
		},
		Hooks: []artifact.Hook{
			{Text: "Title: Director of Quality Engineering", Evidence: "crm: title field", Source: "title"},
			{Text: "Headline mentions scaling QA", Evidence: "linkedin headline", Source: "headline"},
		},
		Pains: []artifact.PainHypothesis{
			{Label: "test maintenance burden slowing releases", Confidence: 0.8, Evidence: "tech stack includes selenium"},
		},
		TechStack: []artifact.TechSignal{
			{Tool: "selenium", Evidence: "careers page mentions Selenium"},
		},
		DataQuality: artifact.DataQuality{Score: 0.9},
	}
}

func generateSet(t *testing.T, touch int, tier string, prior []message.PriorTouch) *message.VariantSet {
	t.Helper()
	g := message.NewGenerator(message.DefaultCatalog())
	sc := &score.Result{ID: "sc-1", Tier: score.Tier(tier)}
	set, err := g.Generate(gateArtifact(), sc, touch, prior, gateNow)
	if err != nil {
		t.Fatalf("Generate touch %d: %v", touch, err)
	}
	return set
}

func TestGeneratedVariantsPassTheGate(t *testing.T) {
	c := message.DefaultCatalog()
	for _, tt := range []struct {
		touch int
		tier  string
	}{
		{1, "hot"}, {2, "hot"}, {3, "warm"}, {5, "warm"}, {6, "cold"},
	} {
		set := generateSet(t, tt.touch, tt.tier, nil)
		for _, report := range CheckSet(set, c, nil) {
			if !report.Passed {
				t.Errorf("touch %d %s variant failed the gate: %+v", tt.touch, report.Tone, report.Violations)
			}
		}
	}
}

func TestGateIsReportOnly(t *testing.T) {
	c := message.DefaultCatalog()
	set := generateSet(t, 1, "hot", nil)
	v := set.Variants[0]
	before := v.Body
	v.Body = "too short"

	Check(&v, c, nil, nil)
	if v.Body != "too short" {
		t.Error("gate modified the variant body")
	}
	_ = before
}

func TestGateViolations(t *testing.T) {
	c := message.DefaultCatalog()

	tests := []struct {
		name   string
		mutate func(*message.Variant)
		check  string
	}{
		{
			name:   "forbidden phrase",
			mutate: func(v *message.Variant) { v.Body = strings.Replace(v.Body, "Hi Jordan,", "Hi Jordan, hope this finds you well.", 1) },
			check:  "forbidden_phrase",
		},
		{
			name:   "placeholder text",
			mutate: func(v *message.Variant) { v.Body = strings.Replace(v.Body, "Jordan", "[NAME]", 1) },
			check:  "placeholder",
		},
		{
			name:   "em dash",
			mutate: func(v *message.Variant) { v.Body = strings.Replace(v.Body, " - ", " — ", 1) },
			check:  "em_dash",
		},
		{
			name:   "too short",
			mutate: func(v *message.Variant) { v.Body = "Hi Jordan,\n\nQuick note. Worth a chat?\n\nRob" },
			check:  "word_count",
		},
		{
			name:   "no question",
			mutate: func(v *message.Variant) { v.Body = strings.ReplaceAll(v.Body, "?", ".") },
			check:  "has_question",
		},
		{
			name:   "overused opener",
			mutate: func(v *message.Variant) { v.Body = strings.Replace(v.Body, "Hi Jordan,\n\n", "Hi Jordan,\n\nI noticed ", 1) },
			check:  "opener_variety",
		},
		{
			name:   "unknown proof point",
			mutate: func(v *message.Variant) { v.ProofPointKey = "made_up_story" },
			check:  "proof_point",
		},
		{
			name:   "uncited opener",
			mutate: func(v *message.Variant) { v.OpenerEvidence = "" },
			check:  "evidence",
		},
		{
			name:   "unverified stat",
			mutate: func(v *message.Variant) { v.Body = strings.Replace(v.Body, "?", "? We cut costs 85% last year.", 1) },
			check:  "evidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := generateSet(t, 1, "hot", nil)
			v := set.Variants[0]
			tt.mutate(&v)

			report := Check(&v, c, nil, nil)
			if report.Passed {
				t.Fatalf("gate passed a variant that should fail %s", tt.check)
			}
			found := false
			for _, viol := range report.Violations {
				if viol.Check == tt.check {
					found = true
				}
			}
			if !found {
				t.Errorf("no %s violation in %+v", tt.check, report.Violations)
			}
		})
	}
}

func TestGateDuplicateSiblings(t *testing.T) {
	c := message.DefaultCatalog()
	set := generateSet(t, 1, "hot", nil)

	clone := set.Variants[0]
	clone.ID = "other-id"
	clone.Tone = message.ToneDirect

	report := Check(&set.Variants[0], c, []message.Variant{clone}, nil)
	if report.Passed {
		t.Fatal("identical sibling bodies passed the gate")
	}
	if report.Violations[0].Check != "structural_duplicate" {
		t.Errorf("violation = %+v, want structural_duplicate", report.Violations[0])
	}
}

func TestGateAngleRotation(t *testing.T) {
	c := message.DefaultCatalog()
	set := generateSet(t, 1, "hot", nil)
	v := set.Variants[0]

	prior := []message.PriorTouch{{TouchNumber: 1, Angle: v.Angle, ProofPointKey: v.ProofPointKey}}
	v.TouchNumber = 3

	report := Check(&v, c, nil, prior)
	found := false
	for _, viol := range report.Violations {
		if viol.Check == "angle_rotation" {
			found = true
		}
	}
	if !found {
		t.Errorf("repeated angle not flagged: %+v", report.Violations)
	}
}

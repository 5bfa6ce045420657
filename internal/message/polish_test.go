package message

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakePolisher struct {
	out   string
	err   error
	calls int
}

func (f *fakePolisher) Polish(_ context.Context, body string, _ Tone, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.out != "" {
		return f.out, nil
	}
	return body, nil
}

func (f *fakePolisher) Health(context.Context) error { return f.err }

func polishFixture(t *testing.T) *Variant {
	t.Helper()
	g := NewGenerator(DefaultCatalog())
	set, err := g.Generate(testArtifact(t), testScore("hot"), 1, nil, genNow)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return &set.Variants[0]
}

func TestPolishDraftAcceptsValidRewrite(t *testing.T) {
	v := polishFixture(t)
	// A trivially safe rewrite: identical body.
	p := &fakePolisher{}

	res := PolishDraft(context.Background(), p, DefaultCatalog(), v, "Jordan", "Billflow")
	if !res.WasPolished {
		t.Fatalf("rewrite rejected: %s", res.FallbackReason)
	}
	if res.Body != v.Body {
		t.Error("identity polish changed the body")
	}
}

func TestPolishDraftFallsBackWhenUnavailable(t *testing.T) {
	v := polishFixture(t)
	p := &fakePolisher{err: errors.New("connection refused")}

	res := PolishDraft(context.Background(), p, DefaultCatalog(), v, "Jordan", "Billflow")
	if res.WasPolished {
		t.Fatal("polish reported success from a failing collaborator")
	}
	if res.Body != v.Body {
		t.Error("fallback did not keep the draft body")
	}
	if p.calls != polishAttempts {
		t.Errorf("collaborator called %d times, want %d", p.calls, polishAttempts)
	}
	if !strings.Contains(res.FallbackReason, "unavailable") {
		t.Errorf("fallback reason = %q", res.FallbackReason)
	}
}

func TestPolishDraftRejectsBadRewrites(t *testing.T) {
	v := polishFixture(t)

	tests := []struct {
		name    string
		rewrite func(string) string
		issue   string
	}{
		{
			name:    "drops a metric",
			rewrite: func(s string) string { return strings.ReplaceAll(s, "15 minutes", "a short call") },
			issue:   "missing metric",
		},
		{
			name:    "introduces em dash",
			rewrite: func(s string) string { return strings.Replace(s, ". ", " — ", 1) },
			issue:   "dash introduced",
		},
		{
			name:    "balloons word count",
			rewrite: func(s string) string { return s + "\n\n" + strings.Repeat("extra filler words here ", 20) },
			issue:   "word count",
		},
		{
			name:    "rewrites the sign-off",
			rewrite: func(s string) string { return strings.ReplaceAll(s, "Rob Gorham", "The Testsigma Team") },
			issue:   "sign-off",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePolisher{out: tt.rewrite(v.Body)}
			res := PolishDraft(context.Background(), p, DefaultCatalog(), v, "Jordan", "Billflow")
			if res.WasPolished {
				t.Fatalf("bad rewrite accepted:\n%s", p.out)
			}
			if res.Body != v.Body {
				t.Error("fallback did not keep the draft body")
			}
			if !strings.Contains(res.FallbackReason, tt.issue) {
				t.Errorf("fallback reason %q does not mention %q", res.FallbackReason, tt.issue)
			}
		})
	}
}

func TestValidatePolishTracksCatalogCustomers(t *testing.T) {
	cat := DefaultCatalog()
	orig := "Cisco cut their regression cycle in half.\n\nRob"
	rewrite := "A large networking company cut their regression cycle in half.\n\nRob"

	issues := validatePolish(orig, rewrite, cat.Customers)
	found := false
	for _, issue := range issues {
		if strings.Contains(issue, "cisco") {
			found = true
		}
	}
	if !found {
		t.Errorf("dropped catalog customer not flagged, issues = %v", issues)
	}

	// The approved list comes from the catalog, not from code.
	issues = validatePolish(orig, rewrite, nil)
	for _, issue := range issues {
		if strings.Contains(issue, "customer") {
			t.Errorf("customer check ran without a catalog list: %v", issue)
		}
	}
}

func TestScoreComponents(t *testing.T) {
	v := polishFixture(t)
	report := ScoreComponents(v, testArtifact(t), DefaultCatalog())

	if report.Overall <= 0 || report.Overall > 1 {
		t.Errorf("overall = %v, want (0, 1]", report.Overall)
	}
	if len(report.Components) != 4 {
		t.Fatalf("got %d components, want 4", len(report.Components))
	}
	for _, cs := range report.Components {
		if cs.Score < 0 || cs.Score > 1 {
			t.Errorf("%s score %v outside [0, 1]", cs.Component, cs.Score)
		}
	}
	if report.Weakest == "" {
		t.Error("weakest component not named")
	}
}

func TestScoreCTAPenalizesPushyLanguage(t *testing.T) {
	calm := ScoreCTA("Happy to show you what that'd look like - worth 15 minutes?")
	pushy := ScoreCTA("You need to book a demo ASAP")
	if pushy.Score >= calm.Score {
		t.Errorf("pushy CTA scored %v, calm scored %v", pushy.Score, calm.Score)
	}
}

package message

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cadence/internal/logging"
)

// Polisher rewrites a draft body for naturalness. Implementations wrap
// an external collaborator; the generator never depends on one being
// reachable.
type Polisher interface {
	Polish(ctx context.Context, body string, tone Tone, prospectName, company string) (string, error)
	Health(ctx context.Context) error
}

// PolishResult records what happened to one draft.
type PolishResult struct {
	Body           string   `json:"body"`
	Original       string   `json:"original"`
	WasPolished    bool     `json:"was_polished"`
	Issues         []string `json:"issues,omitempty"`
	FallbackReason string   `json:"fallback_reason,omitempty"`
}

const polishAttempts = 3

var (
	metricPattern = regexp.MustCompile(`\d+[%xX]|\d+,\d+|\d+ (?:weeks?|days?|minutes?|hours?|months?|tests?)`)
	emDashPattern = regexp.MustCompile("[–—]")
	polishBackoff = 100 * time.Millisecond
)

// PolishDraft runs a draft through the collaborator with bounded
// retries and validates the result. Any failure, timeout, or validation
// miss falls back to the deterministic draft: the collaborator improves
// wording, it never gates delivery. A *CollaboratorUnavailableError is
// recorded in the result, not returned, so batch runs keep moving.
func PolishDraft(ctx context.Context, p Polisher, cat *Catalog, v *Variant, prospectName, company string) PolishResult {
	log := logging.New("polish")
	res := PolishResult{Body: v.Body, Original: v.Body}
	if p == nil {
		res.FallbackReason = "no collaborator configured"
		return res
	}
	var customers []string
	if cat != nil {
		customers = cat.Customers
	}

	var lastErr error
	for attempt := 1; attempt <= polishAttempts; attempt++ {
		polished, err := p.Polish(ctx, v.Body, v.Tone, prospectName, company)
		if err != nil {
			lastErr = err
			if attempt < polishAttempts {
				if err := sleepCtx(ctx, time.Duration(attempt)*polishBackoff); err != nil {
					break
				}
			}
			continue
		}

		polished = strings.TrimSpace(polished)
		if polished == "" {
			res.FallbackReason = "collaborator returned empty body"
			return res
		}

		issues := validatePolish(v.Body, polished, customers)
		if len(issues) > 0 {
			res.Issues = issues
			res.FallbackReason = "validation failed: " + strings.Join(issues, "; ")
			log.Warn("polish rejected, keeping draft",
				"variant_id", v.ID, "issues", strings.Join(issues, "; "))
			return res
		}

		res.Body = polished
		res.WasPolished = true
		return res
	}

	unavailable := &CollaboratorUnavailableError{Attempts: polishAttempts, Err: lastErr}
	res.FallbackReason = unavailable.Error()
	log.Warn("collaborator unavailable, keeping draft", "variant_id", v.ID, "err", lastErr)
	return res
}

// validatePolish checks that a rewrite kept every metric, every
// approved customer name from the catalog, and the sign-off, stayed
// within 20% of the draft's length, and introduced no em or en dashes.
func validatePolish(original, polished string, customers []string) []string {
	var issues []string

	for _, metric := range metricPattern.FindAllString(original, -1) {
		if !strings.Contains(polished, metric) {
			issues = append(issues, "missing metric: '"+metric+"'")
		}
	}

	loweredOrig := strings.ToLower(original)
	loweredPolished := strings.ToLower(polished)
	for _, cust := range customers {
		ref := strings.ToLower(cust)
		if strings.Contains(loweredOrig, ref) && !strings.Contains(loweredPolished, ref) {
			issues = append(issues, "missing customer reference: '"+ref+"'")
		}
	}

	if emDashPattern.MatchString(polished) {
		issues = append(issues, "em/en dash introduced")
	}

	origWords := wordCount(original)
	polishedWords := wordCount(polished)
	if origWords > 0 {
		ratio := float64(polishedWords) / float64(origWords)
		if ratio < 0.8 || ratio > 1.2 {
			issues = append(issues, fmt.Sprintf("word count changed too much: %d -> %d", origWords, polishedWords))
		}
	}

	paras := strings.Split(strings.TrimSpace(original), "\n\n")
	if len(paras) > 0 {
		signoffLines := strings.Split(strings.TrimSpace(paras[len(paras)-1]), "\n")
		senderLine := strings.TrimSpace(signoffLines[len(signoffLines)-1])
		if senderLine != "" && !strings.Contains(polished, senderLine) {
			issues = append(issues, "sign-off changed: expected '"+senderLine+"'")
		}
	}

	return issues
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package gate runs automated quality checks on message variants
// before anything reaches a send queue. The gate reports, it never
// repairs: a flagged variant goes back through generation or to a
// human, edits here would hide the defect that produced it.
package gate

import (
	"fmt"
	"regexp"
	"strings"

	"cadence/internal/message"
)

// Violation is one failed check on one variant.
type Violation struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// Report is the gate verdict for a single variant.
type Report struct {
	VariantID  string      `json:"variant_id"`
	Tone       message.Tone `json:"tone"`
	Passed     bool        `json:"passed"`
	Checks     int         `json:"checks"`
	Violations []Violation `json:"violations,omitempty"`
}

var (
	placeholderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\[(?i:name|company|title|insert|your|prospect)`),
		regexp.MustCompile(`\{(?i:company|name|title|insert|tool)\}`),
		regexp.MustCompile(`\{\{`),
		regexp.MustCompile(`<(?i:company|name)>`),
		regexp.MustCompile(`\b(?:TODO|FIXME|XXX)\b`),
	}
	overusedOpeners = regexp.MustCompile(`(?i)^(i noticed|i saw|i see|i came across|i found)\b`)
	dashPattern     = regexp.MustCompile("[–—]")
	statToken       = regexp.MustCompile(`\d[\d,]*%|\b\d+[xX]\b`)
)

// Check runs every applicable check on the variant. Siblings are the
// other tone variants of the same touch; prior comes from the
// touchpoint log and drives the rotation checks. Call snippets are
// internal talk tracks, so only the content-hygiene checks apply to
// them.
func Check(v *message.Variant, c *message.Catalog, siblings []message.Variant, prior []message.PriorTouch) Report {
	r := Report{VariantID: v.ID, Tone: v.Tone}
	fullText := strings.Join(v.SubjectCandidates, " ") + " " + v.Body

	r.add(checkForbiddenPhrases(fullText, c))
	r.add(checkPlaceholders(fullText))
	r.add(checkDashes(fullText))

	if v.TouchType != message.TouchCallSnippet {
		r.add(checkWordCount(v))
		r.add(checkHasQuestion(v.Body))
		r.add(checkOpenerVariety(v.Body))
		r.add(checkDuplicates(v, siblings))
		r.add(checkProofPoint(v, c))
		r.add(checkEvidence(v, c))
		r.add(checkAngleRotation(v, prior))
	}

	r.Passed = len(r.Violations) == 0
	return r
}

// CheckSet gates every variant in a set against its siblings.
func CheckSet(set *message.VariantSet, c *message.Catalog, prior []message.PriorTouch) []Report {
	reports := make([]Report, 0, len(set.Variants))
	for i := range set.Variants {
		var siblings []message.Variant
		for j := range set.Variants {
			if j != i {
				siblings = append(siblings, set.Variants[j])
			}
		}
		reports = append(reports, Check(&set.Variants[i], c, siblings, prior))
	}
	return reports
}

func (r *Report) add(vs []Violation) {
	r.Checks++
	r.Violations = append(r.Violations, vs...)
}

func checkForbiddenPhrases(text string, c *message.Catalog) []Violation {
	lowered := strings.ToLower(text)
	var out []Violation
	for _, phrase := range c.ForbiddenPhrases {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			out = append(out, Violation{Check: "forbidden_phrase", Detail: "contains " + quote(phrase)})
		}
	}
	return out
}

func checkPlaceholders(text string) []Violation {
	for _, p := range placeholderPatterns {
		if m := p.FindString(text); m != "" {
			return []Violation{{Check: "placeholder", Detail: "placeholder text " + quote(m)}}
		}
	}
	return nil
}

func checkDashes(text string) []Violation {
	if n := len(dashPattern.FindAllString(text, -1)); n > 0 {
		return []Violation{{Check: "em_dash", Detail: fmt.Sprintf("%d em/en dash(es)", n)}}
	}
	return nil
}

func checkWordCount(v *message.Variant) []Violation {
	minW, maxW := message.WordBounds(v.TouchNumber)
	n := len(strings.Fields(v.Body))
	switch {
	case n < minW:
		return []Violation{{Check: "word_count", Detail: fmt.Sprintf("too short: %d words (min %d)", n, minW)}}
	case n > maxW:
		return []Violation{{Check: "word_count", Detail: fmt.Sprintf("too long: %d words (max %d)", n, maxW)}}
	}
	return nil
}

// checkHasQuestion requires at least one question: a touch that never
// asks anything gives the prospect nothing to respond to.
func checkHasQuestion(body string) []Violation {
	if !strings.Contains(body, "?") {
		return []Violation{{Check: "has_question", Detail: "no question in body"}}
	}
	return nil
}

func checkOpenerVariety(body string) []Violation {
	content := body
	if _, after, ok := strings.Cut(body, "\n\n"); ok {
		content = after
	}
	for _, candidate := range []string{strings.TrimSpace(body), strings.TrimSpace(content)} {
		if overusedOpeners.MatchString(candidate) {
			words := strings.Fields(candidate)
			n := min(3, len(words))
			return []Violation{{Check: "opener_variety", Detail: "overused opener " + quote(strings.Join(words[:n], " "))}}
		}
	}
	return nil
}

// checkDuplicates flags a variant whose body matches a sibling exactly
// or shares its opening 40 characters: tone variants that read the same
// are not variants.
func checkDuplicates(v *message.Variant, siblings []message.Variant) []Violation {
	prefix := headOf(v.Body, 40)
	for _, s := range siblings {
		if s.ID == v.ID {
			continue
		}
		if s.Body == v.Body {
			return []Violation{{Check: "structural_duplicate", Detail: "identical body to " + string(s.Tone) + " variant"}}
		}
		if headOf(s.Body, 40) == prefix {
			return []Violation{{Check: "structural_duplicate", Detail: "same opening as " + string(s.Tone) + " variant"}}
		}
	}
	return nil
}

func checkProofPoint(v *message.Variant, c *message.Catalog) []Violation {
	if v.ProofPointKey == "" {
		return nil
	}
	if !c.Has(v.ProofPointKey) {
		return []Violation{{Check: "proof_point", Detail: "unknown proof point key " + quote(v.ProofPointKey)}}
	}
	return nil
}

// checkEvidence enforces the claims discipline: an opener must carry
// its citation, and every stat in the body must be approved catalog
// copy appearing verbatim.
func checkEvidence(v *message.Variant, c *message.Catalog) []Violation {
	var out []Violation
	if v.Opener != "" && v.OpenerEvidence == "" {
		out = append(out, Violation{Check: "evidence", Detail: "opener has no evidence citation"})
	}

	bodyLower := strings.ToLower(v.Body)
	for _, token := range statToken.FindAllString(v.Body, -1) {
		tokenLower := strings.ToLower(token)
		approved := false
		for _, stat := range c.Stats {
			statLower := strings.ToLower(stat)
			if strings.Contains(statLower, tokenLower) && strings.Contains(bodyLower, statLower) {
				approved = true
				break
			}
		}
		if !approved {
			out = append(out, Violation{Check: "evidence", Detail: "unverified stat " + quote(token)})
		}
	}
	return out
}

func checkAngleRotation(v *message.Variant, prior []message.PriorTouch) []Violation {
	if v.Angle == "" {
		return nil
	}
	for _, p := range prior {
		if p.Angle == v.Angle && p.TouchNumber != v.TouchNumber {
			return []Violation{{Check: "angle_rotation", Detail: fmt.Sprintf("angle %q already used on touch %d", v.Angle, p.TouchNumber)}}
		}
	}
	return nil
}

func headOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

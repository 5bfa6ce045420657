package message

import (
	"sort"
	"strings"

	"cadence/internal/artifact"
)

// Tone selects the register a variant is written in.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneDirect   Tone = "direct"
	ToneCurious  Tone = "curious"
)

// Tones lists all variants generated per touch, in stable order.
var Tones = []Tone{ToneFriendly, ToneDirect, ToneCurious}

// functionLabel turns a title into a short label usable mid-sentence.
func functionLabel(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "qa"), strings.Contains(t, "quality"), strings.Contains(t, "test"):
		return "QA"
	case strings.Contains(t, "engineering"), strings.Contains(t, "software"):
		return "engineering"
	case strings.Contains(t, "devops"), strings.Contains(t, "platform"):
		return "platform engineering"
	}
	if _, after, ok := strings.Cut(title, " of "); ok {
		return strings.TrimSpace(after)
	}
	return title
}

// hookPriority orders hooks by personalization strength: person research
// beats company-level facts, which beat bare CRM fields.
func hookPriority(source string) int {
	switch source {
	case "headline", "about", "recently_hired":
		return 0
	case "company_name":
		return 1
	default:
		return 2
	}
}

// pickOpenerHook selects the strongest evidence-backed hook whose source
// angle has not been used in a prior touch. With every angle exhausted
// it falls back to the strongest hook overall; with no evidence-backed
// hook at all it fails closed.
func pickOpenerHook(a *artifact.ResearchArtifact, usedAngles map[string]bool) (artifact.Hook, error) {
	var cited []artifact.Hook
	for _, h := range a.Hooks {
		if h.Evidence != "" {
			cited = append(cited, h)
		}
	}
	if len(cited) == 0 {
		return artifact.Hook{}, &InsufficientEvidenceError{ContactID: a.Contact.ID, Missing: "hook"}
	}
	sort.SliceStable(cited, func(i, j int) bool {
		return hookPriority(cited[i].Source) < hookPriority(cited[j].Source)
	})
	for _, h := range cited {
		if !usedAngles[h.Source] {
			return h, nil
		}
	}
	return cited[0], nil
}

// pickPainHook returns the highest-confidence pain hypothesis text.
func pickPainHook(a *artifact.ResearchArtifact) string {
	best := ""
	bestConf := -1.0
	for _, p := range a.Pains {
		if p.Confidence > bestConf {
			best = p.Label
			bestConf = p.Confidence
		}
	}
	if best == "" {
		return "test maintenance and release velocity"
	}
	return best
}

// renderOpener turns a raw hook into a natural opener sentence, keeping
// evidence labels out of the message body.
func renderOpener(hook artifact.Hook, a *artifact.ResearchArtifact, tone Tone) string {
	company := a.Account.Name
	if company == "" {
		company = "your company"
	}
	title := a.Contact.Title
	fn := functionLabel(title)

	switch hook.Source {
	case "headline":
		switch tone {
		case ToneFriendly:
			return "Your work leading " + fn + " at " + company + " stood out"
		case ToneDirect:
			return "Given your background in " + lower(fn) + " at " + company
		default:
			return "Your experience leading " + lower(fn) + " at " + company + " got me thinking"
		}
	case "recently_hired":
		switch tone {
		case ToneFriendly:
			return "Congrats on the new role at " + company
		case ToneDirect:
			return "Starting a new " + title + " role is the perfect time to evaluate tooling"
		default:
			return "Curious what's top of mind as you settle into the " + title + " role at " + company
		}
	case "about":
		snippet := strings.TrimSuffix(truncateWords(strings.TrimPrefix(hook.Text, "About: "), 8), ".")
		switch tone {
		case ToneFriendly:
			return "Your focus on " + lower(snippet) + " resonated"
		case ToneDirect:
			return "Based on your background in " + lower(snippet)
		default:
			return "Your experience with " + lower(snippet) + " got me thinking"
		}
	case "title":
		switch tone {
		case ToneFriendly:
			return "Your work leading " + fn + " at " + company + " stood out"
		case ToneDirect:
			return "Given your role as " + title + " at " + company
		default:
			return "Running " + fn + " at a company like " + company + " is no small feat"
		}
	case "company_name":
		switch tone {
		case ToneFriendly:
			return "What " + company + " is building caught my attention"
		case ToneDirect:
			return "Reaching out because of " + company + "'s engineering team"
		default:
			return "Been wondering how " + company + " handles test automation at scale"
		}
	}

	switch tone {
	case ToneFriendly:
		return "Your work leading " + fn + " at " + company + " stood out"
	case ToneDirect:
		return "Given your role as " + title + " at " + company
	default:
		return "Your work at " + company + " caught my attention"
	}
}

// renderPainSentence turns a pain hypothesis into a natural sentence,
// framed strategically for directors and above, tactically otherwise.
func renderPainSentence(rawPain string, a *artifact.ResearchArtifact, tone Tone) string {
	company := a.Account.Name
	if company == "" {
		company = "your company"
	}
	industry := a.Account.Industry
	if industry == "" {
		industry = "tech"
	}

	var tools []string
	for _, t := range a.TechStack {
		tools = append(tools, t.Tool)
	}
	strategic := isStrategic(a.Contact.Seniority)
	pain := strings.ToLower(rawPain)

	if strings.Contains(pain, "maintenance") && len(tools) > 0 {
		list := strings.Join(tools[:min(2, len(tools))], " and ")
		if strategic {
			switch tone {
			case ToneFriendly:
				return "Keeping " + list + " suites stable while shipping fast is a grind most " + lower(industry) + " teams know well"
			case ToneDirect:
				return "at " + company + "'s scale, " + list + " maintenance is probably eating into your team's velocity"
			default:
				return "how much engineering time goes into keeping " + list + " tests from breaking"
			}
		}
		switch tone {
		case ToneFriendly:
			return "Wrangling " + list + " test maintenance while keeping release cycles tight is a constant balancing act"
		case ToneDirect:
			return list + " maintenance overhead tends to grow faster than teams can keep up with"
		default:
			return "are flaky " + list + " tests still the biggest time sink for your team"
		}
	}

	if strings.Contains(pain, "compliance") || strings.Contains(pain, "regulated") {
		if strategic {
			if tone == ToneCurious {
				return "how do you keep regression cycles short when compliance requires full coverage before every release"
			}
			return "Regression cycles in a regulated " + lower(industry) + " environment can be a real bottleneck for release velocity"
		}
		if tone == ToneCurious {
			return "how much of your sprint gets eaten by compliance-driven regression"
		}
		return "Running full regression before every release in a compliance-heavy environment takes serious bandwidth"
	}

	if strings.Contains(pain, "scaling") {
		if strategic {
			return "Scaling test coverage without scaling headcount is one of the harder problems in " + lower(industry) + " engineering"
		}
		return "Growing automation coverage while your team's already stretched thin is a tough balance"
	}

	if strings.Contains(pain, "maintenance") {
		if strategic {
			return "At " + company + "'s scale, test maintenance tends to become a real drag on release velocity"
		}
		return "Keeping test suites reliable as " + company + " ships faster is a constant challenge"
	}

	if strategic {
		return "Test automation at " + company + "'s scale tends to become a strategic bottleneck"
	}
	return "Keeping test suites reliable as " + company + " ships faster is a constant challenge"
}

// shortPainLabel compresses a pain hypothesis into subject-line length.
func shortPainLabel(rawPain string) string {
	p := strings.ToLower(rawPain)
	switch {
	case strings.Contains(p, "maintenance"):
		return "test maintenance"
	case strings.Contains(p, "compliance"), strings.Contains(p, "regulated"):
		return "regression cycles"
	case strings.Contains(p, "scaling"):
		return "scaling automation"
	case strings.Contains(p, "flaky"):
		return "flaky tests"
	}
	words := strings.Fields(rawPain)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.TrimRight(strings.ToLower(strings.Join(words, " ")), ",")
}

// pickValueProp chooses a catalog value prop that fits the prospect.
func pickValueProp(c *Catalog, a *artifact.ResearchArtifact, tone Tone) string {
	if len(c.ValueProps) == 0 {
		return ""
	}
	var tools []string
	for _, t := range a.TechStack {
		tools = append(tools, strings.ToLower(t.Tool))
	}

	switch a.Contact.Seniority {
	case "vp", "c-suite":
		for _, vp := range c.ValueProps {
			if strings.Contains(strings.ToLower(vp), "maintenance") || strings.Contains(strings.ToLower(vp), "self-healing") {
				return vp
			}
		}
		return c.ValueProps[0]
	}

	for _, tool := range tools {
		switch tool {
		case "selenium", "cypress", "playwright":
			for _, vp := range c.ValueProps {
				if strings.Contains(strings.ToLower(vp), "self-healing") || strings.Contains(strings.ToLower(vp), "maintenance") {
					return vp
				}
			}
		}
	}

	if strings.Contains(strings.ToLower(a.Contact.Function), "qa") {
		for _, vp := range c.ValueProps {
			if strings.Contains(strings.ToLower(vp), "plain english") || strings.Contains(strings.ToLower(vp), "whole team") {
				return vp
			}
		}
	}

	switch tone {
	case ToneFriendly:
		return c.ValueProps[0]
	case ToneDirect:
		if len(c.ValueProps) > 1 {
			return c.ValueProps[1]
		}
	default:
		if len(c.ValueProps) > 2 {
			return c.ValueProps[2]
		}
	}
	return c.ValueProps[0]
}

// toolsAndCompetitor extracts the tool list and the primary competitor
// name from the artifact's tech-stack signals.
func toolsAndCompetitor(a *artifact.ResearchArtifact) ([]string, string) {
	var tools []string
	competitor := ""
	for _, t := range a.TechStack {
		tools = append(tools, t.Tool)
		if competitor == "" {
			switch strings.ToLower(t.Tool) {
			case "selenium", "cypress", "playwright", "katalon", "testcomplete":
				competitor = t.Tool
			}
		}
	}
	return tools, competitor
}

func isStrategic(seniority string) bool {
	switch seniority {
	case "vp", "c-suite", "director", "head":
		return true
	}
	return false
}

func lower(s string) string {
	if s == "QA" {
		return s
	}
	return strings.ToLower(s)
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ")
}

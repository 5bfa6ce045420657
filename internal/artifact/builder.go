package artifact

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cadence/internal/logging"
)

// SignalCache is the builder's only upstream dependency: cached research
// payloads keyed by account/contact. Fetching is an external
// collaborator's job; the builder only reads.
type SignalCache interface {
	// CompanyResearch returns the most recent cached research for the
	// account, or ok=false when nothing is cached.
	CompanyResearch(accountID string) (*CompanyResearch, bool, error)
	// PersonResearch returns the most recent cached research for the
	// contact, or ok=false when nothing is cached.
	PersonResearch(contactID string) (*PersonResearch, bool, error)
}

// Builder constructs research artifacts from CRM records plus cache reads.
type Builder struct {
	cache  SignalCache
	pains  *PainLibrary
	maxAge time.Duration
	log    *slog.Logger
}

// DefaultFreshness is the cache freshness bound when none is configured.
const DefaultFreshness = 30 * 24 * time.Hour

// NewBuilder creates a Builder. A nil library falls back to the embedded
// one; maxAge <= 0 falls back to DefaultFreshness.
func NewBuilder(cache SignalCache, lib *PainLibrary, maxAge time.Duration) *Builder {
	if lib == nil {
		lib = DefaultPainLibrary()
	}
	if maxAge <= 0 {
		maxAge = DefaultFreshness
	}
	return &Builder{
		cache:  cache,
		pains:  lib,
		maxAge: maxAge,
		log:    logging.New("artifact"),
	}
}

// Build merges the contact/account records with cached research into a
// new evidence-cited artifact. Entries lacking evidence are dropped with
// a data-quality penalty rather than kept; the finished artifact is
// validated before return, so a non-nil result always satisfies the
// evidence discipline.
func (b *Builder) Build(contact Contact, account Account, now time.Time) (*ResearchArtifact, error) {
	a := &ResearchArtifact{
		ID:      uuid.NewString(),
		Contact: contact,
		Account: account,
		BuiltAt: now,
	}
	a.Contact.Seniority = InferSeniority(contact.Title, contact.Seniority)
	a.Contact.Function = InferFunction(contact.Title)

	company, person := b.readCache(a, now)

	if a.Account.Vertical == "" {
		desc := account.Description
		if desc == "" && company != nil {
			desc = company.Description
		}
		a.Account.Vertical = ClassifyVertical(desc, account.Industry)
	}
	if a.Account.Industry == "" && company != nil {
		a.Account.Industry = company.Industry
	}

	knownTools := detectTools(company)
	for _, tool := range knownTools {
		a.TechStack = append(a.TechStack, TechSignal{
			Tool:     tool,
			Evidence: "enrichment field known_tools: " + tool,
		})
	}

	a.Signals = DetectSignals(company, person)
	a.ICPFit = buildICPFit(a.Contact, a.Account)
	a.Pains = b.buildPains(a, knownTools)
	a.Hooks = buildHooks(a.Contact, a.Account, person)

	b.dropUncited(a)
	a.DataQuality.Score = qualityScore(a)

	if err := Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// readCache pulls cached research and records staleness as a
// data-quality warning. Stale payloads are still used; the warning
// surfaces so downstream consumers can decide to re-research.
func (b *Builder) readCache(a *ResearchArtifact, now time.Time) (*CompanyResearch, *PersonResearch) {
	var company *CompanyResearch
	var person *PersonResearch

	if b.cache == nil {
		return nil, nil
	}

	c, ok, err := b.cache.CompanyResearch(a.Account.ID)
	if err != nil {
		b.log.Warn("company cache read failed", "account_id", a.Account.ID, "error", err)
	} else if ok {
		company = c
		if age := now.Sub(c.FetchedAt); age > b.maxAge {
			stale := &StaleDataError{Subject: "account " + a.Account.ID, FetchedAt: c.FetchedAt, MaxAge: b.maxAge}
			a.DataQuality.Warnings = append(a.DataQuality.Warnings, stale.Error())
		}
	}

	p, ok, err := b.cache.PersonResearch(a.Contact.ID)
	if err != nil {
		b.log.Warn("person cache read failed", "contact_id", a.Contact.ID, "error", err)
	} else if ok {
		person = p
		if age := now.Sub(p.FetchedAt); age > b.maxAge {
			stale := &StaleDataError{Subject: "contact " + a.Contact.ID, FetchedAt: p.FetchedAt, MaxAge: b.maxAge}
			a.DataQuality.Warnings = append(a.DataQuality.Warnings, stale.Error())
		}
	}

	return company, person
}

func detectTools(company *CompanyResearch) []string {
	seen := map[string]bool{}
	var tools []string
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		key := strings.ToLower(t)
		if !seen[key] {
			seen[key] = true
			tools = append(tools, t)
		}
	}
	if company != nil {
		for _, t := range company.KnownTools {
			add(t)
		}
		// Sweep the free-text research for competitor tool mentions.
		text := strings.ToLower(company.Description + " " + company.HiringSignals + " " + company.RecentNews)
		for tool := range competitorTools {
			if strings.Contains(text, tool) {
				add(tool)
			}
		}
	}
	sort.Strings(tools)
	return tools
}

func buildICPFit(contact Contact, account Account) ICPFit {
	var fit ICPFit

	switch contact.Function {
	case "QA/Testing":
		fit.Reasons = append(fit.Reasons, "prospect is in QA/Testing function")
	case "Engineering":
		fit.Reasons = append(fit.Reasons, "prospect is in Engineering (secondary ICP)")
	default:
		fit.Disqualifiers = append(fit.Disqualifiers,
			fmt.Sprintf("function %q is not primary ICP", contact.Function))
	}

	switch contact.Seniority {
	case "director", "vp", "c-suite", "head":
		fit.Reasons = append(fit.Reasons, "senior role: "+contact.Seniority)
	case "manager", "senior":
		fit.Reasons = append(fit.Reasons, "mid-level: "+contact.Seniority)
	default:
		fit.Disqualifiers = append(fit.Disqualifiers,
			fmt.Sprintf("seniority %q may lack decision-making authority", contact.Seniority))
	}

	switch {
	case account.Employees >= 201 && account.Employees <= 5000:
		fit.Reasons = append(fit.Reasons,
			fmt.Sprintf("company size %d is sweet spot", account.Employees))
	case account.Employees > 0 && (account.Employees <= 50 || account.Employees > 50000):
		fit.Disqualifiers = append(fit.Disqualifiers,
			fmt.Sprintf("company size %d is outside sweet spot", account.Employees))
	}

	return fit
}

func (b *Builder) buildPains(a *ResearchArtifact, knownTools []string) []PainHypothesis {
	var pains []PainHypothesis

	if len(knownTools) > 0 {
		conf := 0.5
		for _, t := range knownTools {
			switch strings.ToLower(t) {
			case "selenium", "cypress", "playwright":
				conf = 0.8
			}
		}
		list := strings.Join(knownTools, ", ")
		pains = append(pains, PainHypothesis{
			Label:      "test maintenance overhead with " + list,
			Confidence: conf,
			Evidence:   "enrichment field known_tools: " + list,
		})
	}

	if a.Contact.Function == "QA/Testing" {
		switch a.Contact.Seniority {
		case "director", "vp", "manager", "head":
			pains = append(pains, PainHypothesis{
				Label:      "scaling test automation while managing team bandwidth",
				Confidence: 0.6,
				Evidence:   "CRM field title: " + a.Contact.Title,
			})
		}
	}

	industry := strings.ToLower(a.Account.Industry)
	switch {
	case containsAny(industry, "fintech", "finserv", "banking", "insurance"):
		pains = append(pains, PainHypothesis{
			Label:      "regression testing across compliance-sensitive financial workflows",
			Confidence: 0.5,
			Evidence:   "CRM field industry: " + a.Account.Industry,
		})
	case containsAny(industry, "healthcare", "pharma", "health"):
		pains = append(pains, PainHypothesis{
			Label:      "compliance-heavy regression cycles in regulated environment",
			Confidence: 0.5,
			Evidence:   "CRM field industry: " + a.Account.Industry,
		})
	}

	existing := map[string]bool{}
	for _, p := range pains {
		existing[strings.ToLower(p.Label)] = true
	}
	for _, vp := range b.pains.PainsFor(a.Account.Vertical, knownTools) {
		if !existing[strings.ToLower(vp.Label)] {
			pains = append(pains, vp)
			existing[strings.ToLower(vp.Label)] = true
		}
	}

	// Low-confidence fallback so the scorer sees the pain dimension at
	// all; deliberately uncited and below the evidence threshold.
	if len(pains) == 0 {
		pains = append(pains, PainHypothesis{
			Label:      "test maintenance and flaky tests slowing release velocity",
			Confidence: 0.3,
		})
	}
	return pains
}

func buildHooks(contact Contact, account Account, person *PersonResearch) []Hook {
	var hooks []Hook
	if contact.Title != "" {
		hooks = append(hooks, Hook{
			Text:     "Role as " + contact.Title,
			Evidence: "CRM field title: " + contact.Title,
			Source:   "title",
		})
	}
	if account.Name != "" {
		hooks = append(hooks, Hook{
			Text:     "Work at " + account.Name,
			Evidence: "CRM field account name: " + account.Name,
			Source:   "company_name",
		})
	}
	if person != nil {
		if person.Headline != "" {
			hooks = append(hooks, Hook{
				Text:     "LinkedIn headline: " + person.Headline,
				Evidence: "person research headline: " + person.Headline,
				Source:   "headline",
			})
		}
		if person.RecentlyHired {
			hooks = append(hooks, Hook{
				Text:     "Recently started in role (< 6 months)",
				Evidence: "person research recently_hired flag",
				Source:   "recently_hired",
			})
		}
		if person.About != "" {
			hooks = append(hooks, Hook{
				Text:     "About: " + truncate(person.About, 100),
				Evidence: "person research about section",
				Source:   "about",
			})
		}
	}
	return hooks
}

// dropUncited removes claim-bearing entries that lack evidence, counting
// each removal as a data-quality penalty. Pains at or below the 0.7
// threshold may stay uncited; they are hypotheses, not claims.
func (b *Builder) dropUncited(a *ResearchArtifact) {
	hooks := a.Hooks[:0]
	for _, h := range a.Hooks {
		if h.Evidence == "" {
			a.DataQuality.Dropped++
			b.log.Warn("dropped hook without evidence", "contact_id", a.Contact.ID, "hook", truncate(h.Text, 50))
			continue
		}
		hooks = append(hooks, h)
	}
	a.Hooks = hooks

	tech := a.TechStack[:0]
	for _, t := range a.TechStack {
		if t.Evidence == "" {
			a.DataQuality.Dropped++
			b.log.Warn("dropped tech signal without evidence", "contact_id", a.Contact.ID, "tool", t.Tool)
			continue
		}
		tech = append(tech, t)
	}
	a.TechStack = tech

	pains := a.Pains[:0]
	for _, p := range a.Pains {
		if p.Confidence > 0.7 && p.Evidence == "" {
			a.DataQuality.Dropped++
			b.log.Warn("dropped high-confidence pain without evidence", "contact_id", a.Contact.ID, "pain", p.Label)
			continue
		}
		pains = append(pains, p)
	}
	a.Pains = pains
}

// qualityScore is the ratio of filled identity/firmographic fields,
// penalized 0.05 per dropped entry (floored at zero).
func qualityScore(a *ResearchArtifact) float64 {
	fields := []string{
		a.Contact.Name, a.Contact.Title, a.Contact.Function, a.Contact.Seniority,
		a.Account.Name, a.Account.Domain, a.Account.Industry, a.Account.Vertical,
	}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	total := len(fields) + 2
	if a.Account.Employees > 0 {
		filled++
	}
	if len(a.Signals) > 0 {
		filled++
	}
	score := float64(filled)/float64(total) - 0.05*float64(a.DataQuality.Dropped)
	if score < 0 {
		score = 0
	}
	return float64(int(score*100)) / 100
}

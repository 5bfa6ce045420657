package artifact

import "strings"

// competitorTools are test-automation products whose presence in account
// research counts as a tech-stack signal. Lowercase.
var competitorTools = map[string]bool{
	"selenium": true, "cypress": true, "playwright": true, "tosca": true,
	"katalon": true, "testim": true, "mabl": true, "sauce labs": true,
	"browserstack": true, "lambdatest": true, "appium": true, "ranorex": true,
	"telerik": true, "smartbear": true, "tricentis": true, "qmetry": true,
	"testcomplete": true, "uft": true, "eggplant": true, "perfecto": true,
}

// IsCompetitorTool reports whether name is a known competitor product.
func IsCompetitorTool(name string) bool {
	return competitorTools[strings.ToLower(strings.TrimSpace(name))]
}

// verticalKeywords maps vertical labels to the phrases that indicate
// them in a company description or industry string.
var verticalKeywords = map[string][]string{
	"FinTech": {"fintech", "payments", "crypto", "blockchain", "lending",
		"neobank", "buy now pay later", "bnpl", "digital wallet", "remittance"},
	"FinServ": {"bank", "banking", "credit union", "mortgage",
		"wealth management", "asset management", "brokerage",
		"financial services", "capital markets", "investment", "insurance carrier"},
	"Healthcare": {"health", "medical", "clinical", "patient", "telehealth",
		"healthtech", "digital health", "ehr", "emr", "health insurance"},
	"SaaS": {"saas", "software as a service", "cloud platform", "b2b software",
		"enterprise software", "developer tools"},
	"E-Commerce": {"e-commerce", "ecommerce", "online retail", "marketplace",
		"shopping", "catalog", "direct to consumer", "d2c"},
	"InsurTech": {"insurtech", "insurance technology", "digital insurance"},
	"Insurance": {"insurance", "reinsurance", "underwriting", "claims"},
	"Tech":      {"technology", "software", "internet", "platform", "infrastructure"},
	"Telecom":   {"telecom", "telecommunications", "wireless", "mobile network"},
	"Pharma":    {"pharmaceutical", "pharma", "drug", "biotech", "life sciences"},
	"Retail":    {"retail", "store", "consumer goods", "cpg"},
}

// ClassifyVertical maps a company description plus industry string to a
// vertical label by keyword hit count. Ties resolve to the
// lexicographically smallest label so classification is deterministic.
func ClassifyVertical(description, industry string) string {
	text := strings.ToLower(description + " " + industry)

	best := ""
	bestHits := 0
	for vertical, keywords := range verticalKeywords {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && vertical < best) {
			best = vertical
			bestHits = hits
		}
	}
	if best == "" {
		return "Tech"
	}
	return best
}

// InferFunction derives the job function bucket from a title.
func InferFunction(title string) string {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, "qa", "quality", "test", "sdet", "automation"):
		return "QA/Testing"
	case containsAny(t, "engineering", "software", "developer", "cto", "architect"):
		return "Engineering"
	case containsAny(t, "devops", "platform", "infrastructure", "sre", "release"):
		return "DevOps/Platform"
	case containsAny(t, "product", "program"):
		return "Product"
	}
	return "Other"
}

// InferSeniority derives the seniority level from a title. An explicit
// level, when present on the contact record, wins.
func InferSeniority(title, explicit string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	t := strings.ToLower(title)
	switch {
	case containsAny(t, "chief", "cto", "ceo", "coo", "cio"):
		return "c-suite"
	case containsAny(t, "vp", "vice president"):
		return "vp"
	case containsAny(t, "director", "head of"):
		return "director"
	case containsAny(t, "manager", "lead"):
		return "manager"
	case containsAny(t, "senior", "sr", "principal", "staff"):
		return "senior"
	}
	return "individual"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

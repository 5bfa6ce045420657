package message

import (
	"strings"

	"cadence/internal/artifact"
)

// Objection is the predicted first pushback plus a pre-authored response.
type Objection struct {
	Key      string `json:"key"`
	Text     string `json:"text"`
	Response string `json:"response"`
}

// objectionResponses are the pre-authored response templates, keyed by
// objection. {tool} is replaced with the detected competitor product.
var objectionResponses = map[string]Objection{
	"recently_hired": {
		Key:      "recently_hired",
		Text:     "Too early, still assessing",
		Response: "Makes sense. A lot of QA leaders in their first 90 days use our free trial to benchmark what's possible before committing.",
	},
	"existing_tool": {
		Key:      "existing_tool",
		Text:     "We already have a tool",
		Response: "Totally fair. A lot of teams we work with had {tool} too. The gap they kept hitting was maintenance overhead when UI changes frequently. Worth comparing?",
	},
	"large_enterprise": {
		Key:      "large_enterprise",
		Text:     "Security/procurement is complex",
		Response: "We offer on-prem, private cloud, and hybrid. SOC2/ISO certified. A few Fortune 500s run us behind their firewall.",
	},
	"compliance": {
		Key:      "compliance",
		Text:     "Compliance requirements",
		Response: "We work with Sanofi, Oscar Health, and several banks. Happy to walk through our compliance story.",
	},
	"budget": {
		Key:      "budget",
		Text:     "Budget is tight",
		Response: "Totally get it. One company your size (Spendflo) cut manual testing 50% and saw ROI in the first quarter.",
	},
}

// complianceVerticals trigger the compliance objection.
const complianceVerticals = "pharma healthcare finance banking insurance finserv fintech"

// PredictObjection maps detected signals to the single most likely
// objection, in fixed priority order: new-in-role beats existing tool
// beats enterprise procurement beats compliance beats budget. With no
// matching signal the default is the existing-tool objection, the most
// common one in practice.
func PredictObjection(a *artifact.ResearchArtifact) Objection {
	if len(a.SignalsOfType(artifact.SignalRecentlyHired)) > 0 {
		return objectionResponses["recently_hired"]
	}

	if len(a.TechStack) > 0 {
		obj := objectionResponses["existing_tool"]
		obj.Response = strings.ReplaceAll(obj.Response, "{tool}", capitalize(a.TechStack[0].Tool))
		return obj
	}

	if a.Account.Employees >= 50000 {
		return objectionResponses["large_enterprise"]
	}

	vertical := strings.ToLower(a.Account.Vertical + " " + a.Account.Industry)
	for _, v := range strings.Fields(complianceVerticals) {
		if strings.Contains(vertical, v) {
			return objectionResponses["compliance"]
		}
	}

	if a.Account.Employees > 0 && a.Account.Employees < 200 {
		return objectionResponses["budget"]
	}

	obj := objectionResponses["existing_tool"]
	obj.Response = strings.ReplaceAll(obj.Response, "{tool}", "existing tools")
	return obj
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, markdown reports, logs, and docs.
// Keep raw codes for JSON fields, map keys, and equality comparisons.
package display

import "strings"

// --- Next actions ---

var actions = map[string]string{
	"schedule_meeting":    "Schedule a meeting",
	"send_more_info":      "Send more info",
	"follow_up_later":     "Follow up later",
	"pause_sequence":      "Pause the sequence",
	"mark_do_not_contact": "Mark do-not-contact",
	"review_manually":     "Review manually",
}

// Action returns the human-readable name for a next-action code.
// Unknown codes are returned as-is.
func Action(code string) string {
	if name, ok := actions[code]; ok {
		return name
	}
	return code
}

// --- Tiers ---

var tiers = map[string]string{
	"hot":  "Hot",
	"warm": "Warm",
	"cool": "Cool",
	"cold": "Cold",
}

// Tier returns the display name for a priority tier.
func Tier(code string) string {
	if name, ok := tiers[code]; ok {
		return name
	}
	return code
}

// --- Gate checks ---

var gateChecks = map[string]string{
	"forbidden_phrase":     "Forbidden phrase",
	"placeholder":          "Unresolved placeholder",
	"em_dash":              "Em dash",
	"word_count":           "Word count out of bounds",
	"has_question":         "No question asked",
	"opener_variety":       "Overused opener",
	"structural_duplicate": "Duplicate of sibling variant",
	"proof_point":          "Unknown proof point",
	"evidence":             "Uncited claim",
	"angle_rotation":       "Angle repeated from prior touch",
}

// GateCheck returns the human-readable name for a gate check code.
func GateCheck(code string) string {
	if name, ok := gateChecks[code]; ok {
		return name
	}
	return code
}

// --- Channels and touch types ---

var channels = map[string]string{
	"linkedin": "LinkedIn",
	"email":    "Email",
	"phone":    "Phone",
}

// Channel returns the display name for an outreach channel.
func Channel(code string) string {
	if name, ok := channels[code]; ok {
		return name
	}
	return code
}

var touchTypes = map[string]string{
	"inmail":          "InMail",
	"call_snippet":    "Call snippet",
	"inmail_followup": "Follow-up InMail",
	"email":           "Email",
	"breakup":         "Break-up note",
}

// TouchType returns the display name for a touch type.
func TouchType(code string) string {
	if name, ok := touchTypes[code]; ok {
		return name
	}
	return code
}

// --- Sentiment ---

// Sentiment renders a sentiment label like "very_positive" as
// "Very positive".
func Sentiment(label string) string {
	if label == "" {
		return label
	}
	s := strings.ReplaceAll(label, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

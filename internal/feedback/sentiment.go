// Package feedback closes the loop: it records replies and meetings,
// scores reply sentiment, detects research contradictions, and surfaces
// which message attributes actually convert.
package feedback

import (
	"math"
	"sort"
	"strings"
)

// Recommended next actions, from most to least engaged.
const (
	ActionScheduleMeeting = "schedule_meeting"
	ActionSendMoreInfo    = "send_more_info"
	ActionFollowUpLater   = "follow_up_later"
	ActionPauseSequence   = "pause_sequence"
	ActionDoNotContact    = "mark_do_not_contact"
	ActionReviewManually  = "review_manually"
)

// SentimentResult is a continuous reading of a reply, not a ternary
// intent: "let's schedule" and "interesting but not now" both read
// positive-ish but demand different actions.
type SentimentResult struct {
	Score           float64 `json:"score"`
	Label           string  `json:"label"`
	Category        string  `json:"category"`
	Bucket          string  `json:"bucket,omitempty"`
	Confidence      float64 `json:"confidence"`
	SuggestedIntent string  `json:"suggested_intent"`
	Action          string  `json:"action"`
}

type sentimentCategory struct {
	name     string
	score    float64
	keywords []string
}

// Categories are checked in priority order, but the strongest matched
// signal wins: a reply that is both a referral and a brush-off reads
// as the brush-off. Priority order only breaks ties, so "not
// interested" still beats "interested". Within a category, longer
// phrases match first ("maybe later" must beat "maybe").
var sentimentCategories = []sentimentCategory{
	{"strong_negative", -0.9, []string{
		"not interested", "stop", "unsubscribe", "remove me",
		"do not contact", "don't contact", "no thanks",
		"please stop", "wrong person",
	}},
	{"strong_positive", 0.9, []string{
		"yes", "let's schedule", "let's chat", "let's connect",
		"interested", "love to", "sounds great", "book a time",
		"available", "set up a call", "looking forward",
	}},
	{"out_of_office", 0.0, []string{
		"out of office", "ooo", "on vacation", "on leave",
		"will be back", "return on", "away from",
	}},
	{"referral", 0.3, []string{
		"talk to", "reach out to", "contact my colleague",
		"try reaching", "better person", "connect you with",
	}},
	{"mild_negative", -0.5, []string{
		"not right now", "not the right time", "maybe later",
		"busy right now", "check back", "not a priority",
		"already have", "we use", "happy with",
	}},
	{"mild_positive", 0.5, []string{
		"maybe", "could be", "tell me more", "send me more",
		"share more", "good timing", "open to", "curious",
		"worth exploring", "interesting",
	}},
	{"neutral", 0.0, []string{
		"thanks for reaching out", "noted", "received",
		"will review", "let me think", "not sure",
	}},
}

// ScoreReplySentiment scores reply text on a -1 to +1 scale and maps
// it to a suggested intent and next action. Deterministic keyword
// matching: the same reply always scores the same.
func ScoreReplySentiment(replyText, existingIntent string) SentimentResult {
	text := strings.ToLower(strings.TrimSpace(replyText))
	if text == "" {
		return SentimentResult{
			Label:           "unknown",
			Category:        "none",
			SuggestedIntent: fallbackIntent(existingIntent),
			Action:          ActionReviewManually,
		}
	}

	matched := ""
	matchedScore := 0.0
	matchedKeyword := ""
	matchCount := 0
	for _, cat := range sentimentCategories {
		keywords := append([]string(nil), cat.keywords...)
		sort.Slice(keywords, func(i, j int) bool { return len(keywords[i]) > len(keywords[j]) })
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matchCount++
				if matched == "" || math.Abs(cat.score) > math.Abs(matchedScore) {
					matched = cat.name
					matchedScore = cat.score
					matchedKeyword = kw
				}
				break
			}
		}
	}

	if matched == "" {
		score := map[string]float64{
			"positive": 0.5, "negative": -0.5, "referral": 0.3,
		}[existingIntent]
		return SentimentResult{
			Score:           score,
			Label:           sentimentLabel(score),
			Category:        "inferred_from_intent",
			Confidence:      0.3,
			SuggestedIntent: fallbackIntent(existingIntent),
			Action:          ActionReviewManually,
		}
	}

	confidence := math.Min(0.95, 0.5+float64(matchCount)*0.15)
	if len(text) < 10 {
		// Short replies are harder to classify.
		confidence = math.Min(confidence, 0.6)
	}

	return SentimentResult{
		Score:           matchedScore,
		Label:           sentimentLabel(matchedScore),
		Category:        matched,
		Bucket:          replyBucket(matched, matchedKeyword),
		Confidence:      math.Round(confidence*100) / 100,
		SuggestedIntent: suggestedIntent(matched, matchedScore),
		Action:          actionFor(matchedScore),
	}
}

// Reporting buckets replies into a coarse taxonomy: polite, positive,
// negative, curiosity, referral, has_tool, timing. Buckets are derived
// from the same keyword match, never from a second pass: "we use X" is
// a mild negative that specifically means the prospect already owns a
// competing tool.
var keywordBuckets = map[string]string{
	"we use":       "has_tool",
	"already have": "has_tool",
	"happy with":   "has_tool",

	"not right now":      "timing",
	"not the right time": "timing",
	"maybe later":        "timing",
	"busy right now":     "timing",
	"check back":         "timing",

	"tell me more":    "curiosity",
	"send me more":    "curiosity",
	"share more":      "curiosity",
	"curious":         "curiosity",
	"worth exploring": "curiosity",
	"interesting":     "curiosity",
}

var categoryBuckets = map[string]string{
	"strong_positive": "positive",
	"mild_positive":   "positive",
	"strong_negative": "negative",
	"mild_negative":   "negative",
	"referral":        "referral",
	"out_of_office":   "timing",
	"neutral":         "polite",
}

func replyBucket(category, keyword string) string {
	if b, ok := keywordBuckets[keyword]; ok {
		return b
	}
	return categoryBuckets[category]
}

func suggestedIntent(category string, score float64) string {
	switch {
	case category == "referral":
		return "referral"
	case category == "out_of_office":
		return "out_of_office"
	case score >= 0.3:
		return "positive"
	case score <= -0.3:
		return "negative"
	}
	return "neutral"
}

func actionFor(score float64) string {
	switch {
	case score >= 0.7:
		return ActionScheduleMeeting
	case score >= 0.3:
		return ActionSendMoreInfo
	case score >= -0.3:
		return ActionFollowUpLater
	case score >= -0.7:
		return ActionPauseSequence
	}
	return ActionDoNotContact
}

func sentimentLabel(score float64) string {
	switch {
	case score >= 0.7:
		return "very_positive"
	case score >= 0.3:
		return "positive"
	case score >= -0.3:
		return "neutral"
	case score >= -0.7:
		return "negative"
	}
	return "very_negative"
}

func fallbackIntent(existing string) string {
	if existing == "" {
		return "neutral"
	}
	return existing
}

package message

import "time"

// Channel and touch-type labels per touch number.
const (
	ChannelLinkedIn = "linkedin"
	ChannelPhone    = "phone"
	ChannelEmail    = "email"

	TouchInMail      = "inmail"
	TouchCallSnippet = "call_snippet"
	TouchFollowUp    = "inmail_followup"
	TouchEmail       = "email"
	TouchBreakup     = "breakup"
)

// ChannelFor maps a touch number onto its channel and touch type.
func ChannelFor(touchNumber int) (channel, touchType string) {
	switch touchNumber {
	case 1:
		return ChannelLinkedIn, TouchInMail
	case 2, 4:
		return ChannelPhone, TouchCallSnippet
	case 3:
		return ChannelLinkedIn, TouchFollowUp
	case 5:
		return ChannelEmail, TouchEmail
	default:
		return ChannelLinkedIn, TouchBreakup
	}
}

// Variant is one message rendition for (contact, touch number, tone).
type Variant struct {
	ID                 string    `json:"id"`
	ContactID          string    `json:"contact_id"`
	ArtifactID         string    `json:"artifact_id"`
	ScoreID            string    `json:"score_id,omitempty"`
	TouchNumber        int       `json:"touch_number"`
	Channel            string    `json:"channel"`
	TouchType          string    `json:"touch_type"`
	Tone               Tone      `json:"tone"`
	SubjectCandidates  []string  `json:"subject_candidates,omitempty"`
	Body               string    `json:"body"`
	Opener             string    `json:"opener,omitempty"`
	OpenerEvidence     string    `json:"opener_evidence,omitempty"`
	Angle              string    `json:"angle,omitempty"` // hook source label, for rotation
	PainHook           string    `json:"pain_hook,omitempty"`
	ProofPointKey      string    `json:"proof_point_key,omitempty"`
	CTA                string    `json:"cta,omitempty"`
	PredictedObjection Objection `json:"predicted_objection"`
	WordCount          int       `json:"word_count"`
	Polished           bool      `json:"polished,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// VariantSet is the full tone spread for one touch.
type VariantSet struct {
	ContactID   string    `json:"contact_id"`
	ArtifactID  string    `json:"artifact_id"`
	TouchNumber int       `json:"touch_number"`
	Tier        string    `json:"tier"`
	Variants    []Variant `json:"variants"`
}

// PriorTouch summarizes an earlier touch for rotation decisions. Built
// from the touchpoint log by the caller; the generator never reads
// storage itself.
type PriorTouch struct {
	TouchNumber   int
	ProofPointKey string
	Angle         string
}

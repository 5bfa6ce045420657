package store

import "time"

// Touchpoint is one outbound touch actually sent to a prospect.
// Event rows are append-only: a touch that happened is never edited.
type Touchpoint struct {
	ID          string    `json:"id"`
	ContactID   string    `json:"contact_id"`
	VariantID   string    `json:"variant_id"`
	TouchNumber int       `json:"touch_number"`
	Channel     string    `json:"channel"`
	SentAt      time.Time `json:"sent_at"`
}

// Reply is an inbound prospect response, linked to the touchpoint it
// answers. Sentiment fields are filled by the feedback tracker at
// record time.
type Reply struct {
	ID             string    `json:"id"`
	ContactID      string    `json:"contact_id"`
	TouchpointID   string    `json:"touchpoint_id,omitempty"`
	Channel        string    `json:"channel"`
	Intent         string    `json:"intent"`
	ReplyTag       string    `json:"reply_tag,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	RawText        string    `json:"raw_text,omitempty"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label,omitempty"`
	Bucket         string    `json:"bucket,omitempty"`
	Action         string    `json:"action,omitempty"`
	RepliedAt      time.Time `json:"replied_at"`
}

// Outcome is a downstream result (meeting booked, opportunity opened)
// attributed back to the outreach that produced it.
type Outcome struct {
	ID                  string    `json:"id"`
	ContactID           string    `json:"contact_id"`
	Status              string    `json:"status"`
	MeetingDate         time.Time `json:"meeting_date"`
	PipelineValue       float64   `json:"pipeline_value,omitempty"`
	TriggerTouchpointID string    `json:"trigger_touchpoint_id,omitempty"`
	TriggerReplyID      string    `json:"trigger_reply_id,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Correction records a research fact a prospect contradicted. The
// original artifact stays untouched; corrections are a parallel ledger
// consulted on the next build.
type Correction struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"contact_id"`
	Field      string    `json:"field"`
	Original   string    `json:"original"`
	Corrected  string    `json:"corrected"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// PipelineError captures a per-contact failure during a batch run so
// one bad contact never hides the rest of the cohort's results.
type PipelineError struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

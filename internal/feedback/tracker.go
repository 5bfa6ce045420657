package feedback

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cadence/adapters/store"
	"cadence/internal/logging"
	"cadence/internal/message"
)

// Tracker records inbound events and derives corrections from them. It
// only ever appends: replies, outcomes, and corrections are new rows,
// never edits to existing ones.
type Tracker struct {
	store store.Store
	log   *slog.Logger
}

func NewTracker(st store.Store) *Tracker {
	return &Tracker{store: st, log: logging.New("feedback")}
}

// TouchInput is the raw material for RecordTouch.
type TouchInput struct {
	ContactID string
	VariantID string       // optional; resolved from the latest touch's variants when empty
	Tone      message.Tone // which rendition was actually sent
	SentAt    time.Time    // defaults to now
}

// RecordTouch logs that a generated variant went out. The touchpoint
// row is what proof-point rotation, reply linking, and attribution all
// read, so nothing downstream works for a contact until its sends are
// recorded here.
func (t *Tracker) RecordTouch(in TouchInput, now time.Time) (*store.Touchpoint, error) {
	if in.ContactID == "" {
		return nil, fmt.Errorf("record touch: contact id required")
	}

	v, err := t.resolveVariant(in)
	if err != nil {
		return nil, err
	}

	existing, err := t.store.ListTouchpointsForContact(in.ContactID)
	if err != nil {
		return nil, fmt.Errorf("list touchpoints: %w", err)
	}
	for _, tp := range existing {
		if tp.TouchNumber == v.TouchNumber {
			return nil, fmt.Errorf("record touch: touch %d already sent for %s", v.TouchNumber, in.ContactID)
		}
	}

	sentAt := in.SentAt
	if sentAt.IsZero() {
		sentAt = now
	}
	tp := &store.Touchpoint{
		ID:          uuid.NewString(),
		ContactID:   in.ContactID,
		VariantID:   v.ID,
		TouchNumber: v.TouchNumber,
		Channel:     v.Channel,
		SentAt:      sentAt,
	}
	if err := t.store.SaveTouchpoint(tp); err != nil {
		return nil, fmt.Errorf("save touchpoint: %w", err)
	}

	t.log.Info("touch recorded",
		"contact_id", in.ContactID,
		"touch_number", v.TouchNumber,
		"channel", v.Channel,
		"tone", string(v.Tone))
	return tp, nil
}

func (t *Tracker) resolveVariant(in TouchInput) (*message.Variant, error) {
	if in.VariantID != "" {
		v, err := t.store.GetVariant(in.VariantID)
		if err != nil {
			return nil, fmt.Errorf("load variant: %w", err)
		}
		if v == nil {
			return nil, fmt.Errorf("record touch: variant %s not found", in.VariantID)
		}
		if v.ContactID != in.ContactID {
			return nil, fmt.Errorf("record touch: variant %s belongs to %s", in.VariantID, v.ContactID)
		}
		return v, nil
	}

	vars, err := t.store.ListVariantsForContact(in.ContactID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	if len(vars) == 0 {
		return nil, fmt.Errorf("record touch: no variants generated for %s", in.ContactID)
	}

	// The newest generated touch is the one due to go out.
	latestTouch := vars[len(vars)-1].TouchNumber
	tone := in.Tone
	if tone == "" {
		tone = message.ToneFriendly
	}
	for i := len(vars) - 1; i >= 0; i-- {
		if vars[i].TouchNumber == latestTouch && vars[i].Tone == tone {
			return vars[i], nil
		}
	}
	return nil, fmt.Errorf("record touch: no %s variant for touch %d of %s", tone, latestTouch, in.ContactID)
}

// ReplyInput is the raw material for RecordReply.
type ReplyInput struct {
	ContactID    string
	TouchpointID string // optional; latest touchpoint is used when empty
	Channel      string
	ReplyTag     string
	Summary      string
	RawText      string
}

// RecordReply scores the reply's sentiment, links it to the touchpoint
// it answers, persists it, and records a correction row for every
// research contradiction the text contains.
func (t *Tracker) RecordReply(in ReplyInput, now time.Time) (*store.Reply, []Contradiction, error) {
	if in.ContactID == "" {
		return nil, nil, fmt.Errorf("record reply: contact id required")
	}

	touchpointID := in.TouchpointID
	if touchpointID == "" {
		tps, err := t.store.ListTouchpointsForContact(in.ContactID)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve touchpoint: %w", err)
		}
		if len(tps) > 0 {
			touchpointID = tps[len(tps)-1].ID
		}
	}

	sentiment := ScoreReplySentiment(in.RawText, "")
	reply := &store.Reply{
		ID:             uuid.NewString(),
		ContactID:      in.ContactID,
		TouchpointID:   touchpointID,
		Channel:        in.Channel,
		Intent:         sentiment.SuggestedIntent,
		ReplyTag:       in.ReplyTag,
		Summary:        in.Summary,
		RawText:        in.RawText,
		SentimentScore: sentiment.Score,
		SentimentLabel: sentiment.Label,
		Bucket:         sentiment.Bucket,
		Action:         sentiment.Action,
		RepliedAt:      now,
	}
	if err := t.store.SaveReply(reply); err != nil {
		return nil, nil, fmt.Errorf("save reply: %w", err)
	}

	contradictions, err := t.recordContradictions(in.ContactID, in.RawText, now)
	if err != nil {
		return nil, nil, err
	}

	if err := t.refinePains(in.ContactID, sentiment, in.RawText, now); err != nil {
		return nil, nil, err
	}

	t.log.Info("reply recorded",
		"contact_id", in.ContactID,
		"touchpoint_id", touchpointID,
		"sentiment", sentiment.Score,
		"action", sentiment.Action,
		"contradictions", len(contradictions))
	return reply, contradictions, nil
}

func (t *Tracker) recordContradictions(contactID, rawText string, now time.Time) ([]Contradiction, error) {
	a, err := t.store.LatestArtifactForContact(contactID)
	if err != nil {
		return nil, fmt.Errorf("load artifact: %w", err)
	}
	contradictions := DetectContradictions(rawText, a)

	for _, c := range contradictions {
		corr := &store.Correction{
			ID:         uuid.NewString(),
			ContactID:  contactID,
			Field:      c.Field,
			Original:   c.Original,
			Corrected:  c.Corrected,
			Source:     "reply",
			Confidence: c.Confidence,
			CreatedAt:  now,
		}
		if err := t.store.SaveCorrection(corr); err != nil {
			return nil, fmt.Errorf("save correction: %w", err)
		}
	}
	return contradictions, nil
}

// refinePains records a pain correction when a prospect explicitly
// deprioritizes the problem we led with. The next artifact build reads
// corrections and discounts the hypothesis instead of repeating it.
func (t *Tracker) refinePains(contactID string, s SentimentResult, rawText string, now time.Time) error {
	if s.Category != "mild_negative" {
		return nil
	}
	text := strings.ToLower(rawText)
	deprioritized := false
	for _, phrase := range []string{"not a priority", "happy with", "already have", "not the right time"} {
		if strings.Contains(text, phrase) {
			deprioritized = true
			break
		}
	}
	if !deprioritized {
		return nil
	}

	a, err := t.store.LatestArtifactForContact(contactID)
	if err != nil {
		return fmt.Errorf("load artifact: %w", err)
	}
	if a == nil || len(a.Pains) == 0 {
		return nil
	}
	best, ok := a.BestPain()
	if !ok {
		best = a.Pains[0]
	}

	corr := &store.Correction{
		ID:         uuid.NewString(),
		ContactID:  contactID,
		Field:      "pain",
		Original:   best.Label,
		Corrected:  "deprioritized by prospect",
		Source:     "reply",
		Confidence: 0.6,
		CreatedAt:  now,
	}
	if err := t.store.SaveCorrection(corr); err != nil {
		return fmt.Errorf("save pain correction: %w", err)
	}
	return nil
}

// MeetingInput is the raw material for RecordMeeting.
type MeetingInput struct {
	ContactID           string
	MeetingDate         time.Time
	TriggerTouchpointID string
	TriggerReplyID      string
	PipelineValue       float64
	Notes               string
}

// RecordMeeting books an outcome row and attributes it to the touch
// that earned it.
func (t *Tracker) RecordMeeting(in MeetingInput, now time.Time) (*store.Outcome, *Attribution, error) {
	if in.ContactID == "" {
		return nil, nil, fmt.Errorf("record meeting: contact id required")
	}

	attr, err := t.Attribution(in.TriggerTouchpointID, in.ContactID)
	if err != nil {
		return nil, nil, err
	}

	meetingDate := in.MeetingDate
	if meetingDate.IsZero() {
		meetingDate = now
	}
	outcome := &store.Outcome{
		ID:                  uuid.NewString(),
		ContactID:           in.ContactID,
		Status:              "meeting_booked",
		MeetingDate:         meetingDate,
		PipelineValue:       in.PipelineValue,
		TriggerTouchpointID: in.TriggerTouchpointID,
		TriggerReplyID:      in.TriggerReplyID,
		Notes:               in.Notes,
		CreatedAt:           now,
	}
	if err := t.store.SaveOutcome(outcome); err != nil {
		return nil, nil, fmt.Errorf("save outcome: %w", err)
	}

	t.log.Info("meeting recorded",
		"contact_id", in.ContactID,
		"pipeline_value", in.PipelineValue,
		"trigger_touchpoint", in.TriggerTouchpointID)
	return outcome, attr, nil
}

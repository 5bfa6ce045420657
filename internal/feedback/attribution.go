package feedback

import (
	"fmt"
	"time"

	"cadence/adapters/store"
	"cadence/internal/message"
)

// Attribution links a reply or outcome back to the message attributes
// that produced it. Built purely from stored rows: the walk is
// Reply -> Touchpoint -> Variant, never a regeneration.
type Attribution struct {
	Channel       string       `json:"channel,omitempty"`
	TouchNumber   int          `json:"touch_number,omitempty"`
	Tone          message.Tone `json:"tone,omitempty"`
	ProofPointKey string       `json:"proof_point_key,omitempty"`
	PainHook      string       `json:"pain_hook,omitempty"`
	Angle         string       `json:"angle,omitempty"`
}

// Attribution resolves the attributes behind a touchpoint. With no
// touchpoint ID it falls back to the contact's most recent touch.
func (t *Tracker) Attribution(touchpointID, contactID string) (*Attribution, error) {
	if touchpointID == "" {
		tps, err := t.store.ListTouchpointsForContact(contactID)
		if err != nil {
			return nil, fmt.Errorf("list touchpoints: %w", err)
		}
		if len(tps) == 0 {
			return &Attribution{}, nil
		}
		touchpointID = tps[len(tps)-1].ID
	}

	tp, err := t.store.GetTouchpoint(touchpointID)
	if err != nil {
		return nil, fmt.Errorf("get touchpoint: %w", err)
	}
	if tp == nil {
		return &Attribution{}, nil
	}

	attr := &Attribution{Channel: tp.Channel, TouchNumber: tp.TouchNumber}
	if tp.VariantID == "" {
		return attr, nil
	}
	v, err := t.store.GetVariant(tp.VariantID)
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	if v != nil {
		attr.Tone = v.Tone
		attr.ProofPointKey = v.ProofPointKey
		attr.PainHook = v.PainHook
		attr.Angle = v.Angle
	}
	return attr, nil
}

// ChainLink is one event in a contact's funnel history.
type ChainLink struct {
	Kind           string    `json:"kind"` // touch, reply, outcome
	At             time.Time `json:"at"`
	TouchNumber    int       `json:"touch_number,omitempty"`
	Channel        string    `json:"channel,omitempty"`
	ProofPointKey  string    `json:"proof_point_key,omitempty"`
	Angle          string    `json:"angle,omitempty"`
	Intent         string    `json:"intent,omitempty"`
	SentimentScore float64   `json:"sentiment_score,omitempty"`
	Status         string    `json:"status,omitempty"`
	PipelineValue  float64   `json:"pipeline_value,omitempty"`
}

// Funnel is the complete attribution chain for one contact.
type Funnel struct {
	ContactID string       `json:"contact_id"`
	Chain     []ChainLink  `json:"chain"`
	Outcome   string       `json:"outcome"`
	Winning   *Attribution `json:"winning_attributes,omitempty"`
}

// FullFunnel traces every touch, reply, and outcome for a contact in
// order, and names the attributes of the touch that triggered the
// final outcome.
func (t *Tracker) FullFunnel(contactID string) (*Funnel, error) {
	tps, err := t.store.ListTouchpointsForContact(contactID)
	if err != nil {
		return nil, fmt.Errorf("list touchpoints: %w", err)
	}
	replies, err := t.store.ListRepliesForContact(contactID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	outcomes, err := t.store.ListOutcomesForContact(contactID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}

	replyByTP := make(map[string]*store.Reply, len(replies))
	for _, r := range replies {
		if r.TouchpointID != "" {
			replyByTP[r.TouchpointID] = r
		}
	}

	f := &Funnel{ContactID: contactID, Outcome: "no_outcome"}
	for _, tp := range tps {
		link := ChainLink{
			Kind:        "touch",
			At:          tp.SentAt,
			TouchNumber: tp.TouchNumber,
			Channel:     tp.Channel,
		}
		if tp.VariantID != "" {
			if v, err := t.store.GetVariant(tp.VariantID); err == nil && v != nil {
				link.ProofPointKey = v.ProofPointKey
				link.Angle = v.Angle
			}
		}
		f.Chain = append(f.Chain, link)

		if r, ok := replyByTP[tp.ID]; ok {
			f.Chain = append(f.Chain, ChainLink{
				Kind:           "reply",
				At:             r.RepliedAt,
				TouchNumber:    tp.TouchNumber,
				Intent:         r.Intent,
				SentimentScore: r.SentimentScore,
			})
		}
	}

	var winningTP string
	for _, o := range outcomes {
		f.Chain = append(f.Chain, ChainLink{
			Kind:          "outcome",
			At:            o.CreatedAt,
			Status:        o.Status,
			PipelineValue: o.PipelineValue,
		})
		f.Outcome = o.Status
		winningTP = o.TriggerTouchpointID
	}

	if winningTP != "" {
		attr, err := t.Attribution(winningTP, contactID)
		if err == nil {
			f.Winning = attr
		}
	}
	return f, nil
}

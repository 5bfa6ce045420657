package feedback

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"cadence/adapters/store"
)

// Bucket is the sent/replied/positive breakdown for one attribute value.
type Bucket struct {
	Sent         int     `json:"sent"`
	Replied      int     `json:"replied"`
	Positive     int     `json:"positive"`
	ReplyRate    float64 `json:"reply_rate"`
	PositiveRate float64 `json:"positive_rate"`
}

// Totals summarizes the whole period.
type Totals struct {
	TouchesSent     int     `json:"touches_sent"`
	RepliesReceived int     `json:"replies_received"`
	PositiveReplies int     `json:"positive_replies"`
	MeetingsBooked  int     `json:"meetings_booked"`
	ReplyRate       float64 `json:"reply_rate"`
	PositiveRate    float64 `json:"positive_rate"`
	MeetingRate     float64 `json:"meeting_rate"`
}

// Stats is conversion performance broken down by message attribute.
type Stats struct {
	ByProofPoint  map[string]Bucket `json:"by_proof_point"`
	ByChannel     map[string]Bucket `json:"by_channel"`
	ByTouchNumber map[string]Bucket `json:"by_touch_number"`
	ByTone        map[string]Bucket `json:"by_tone"`
	ByAngle       map[string]Bucket `json:"by_angle"`
	Totals        Totals            `json:"totals"`
	PeriodDays    int               `json:"period_days"`
}

// ConversionStats computes reply and positive-reply rates per proof
// point, channel, touch number, tone, and opener angle over a look-back
// window. Pure read-side: it walks stored touchpoints, variants,
// replies, and outcomes.
func (t *Tracker) ConversionStats(now time.Time, days int) (*Stats, error) {
	cutoff := now.AddDate(0, 0, -days)

	tps, err := t.store.ListTouchpointsSince(cutoff)
	if err != nil {
		return nil, fmt.Errorf("list touchpoints: %w", err)
	}
	replies, err := t.store.ListRepliesSince(cutoff)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	outcomes, err := t.store.ListOutcomesSince(cutoff)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}

	replyByTP := make(map[string]*store.Reply, len(replies))
	for _, r := range replies {
		if r.TouchpointID != "" {
			replyByTP[r.TouchpointID] = r
		}
	}

	stats := &Stats{
		ByProofPoint:  map[string]Bucket{},
		ByChannel:     map[string]Bucket{},
		ByTouchNumber: map[string]Bucket{},
		ByTone:        map[string]Bucket{},
		ByAngle:       map[string]Bucket{},
		PeriodDays:    days,
	}

	for _, tp := range tps {
		proofPoint, tone, angle := "(unknown)", "(unknown)", "(unknown)"
		if tp.VariantID != "" {
			if v, err := t.store.GetVariant(tp.VariantID); err == nil && v != nil {
				if v.ProofPointKey != "" {
					proofPoint = v.ProofPointKey
				}
				tone = string(v.Tone)
				if v.Angle != "" {
					angle = v.Angle
				}
			}
		}

		reply := replyByTP[tp.ID]
		tally(stats.ByProofPoint, proofPoint, reply)
		tally(stats.ByChannel, tp.Channel, reply)
		tally(stats.ByTouchNumber, strconv.Itoa(tp.TouchNumber), reply)
		tally(stats.ByTone, tone, reply)
		tally(stats.ByAngle, angle, reply)
	}

	finalize(stats.ByProofPoint)
	finalize(stats.ByChannel)
	finalize(stats.ByTouchNumber)
	finalize(stats.ByTone)
	finalize(stats.ByAngle)

	positive := 0
	for _, r := range replies {
		if isPositive(r.Intent) {
			positive++
		}
	}
	stats.Totals = Totals{
		TouchesSent:     len(tps),
		RepliesReceived: len(replies),
		PositiveReplies: positive,
		MeetingsBooked:  len(outcomes),
		ReplyRate:       safeRate(len(replies), len(tps)),
		PositiveRate:    safeRate(positive, len(tps)),
		MeetingRate:     safeRate(len(outcomes), len(tps)),
	}
	return stats, nil
}

func tally(buckets map[string]Bucket, key string, reply *store.Reply) {
	b := buckets[key]
	b.Sent++
	if reply != nil {
		b.Replied++
		if isPositive(reply.Intent) {
			b.Positive++
		}
	}
	buckets[key] = b
}

func finalize(buckets map[string]Bucket) {
	for key, b := range buckets {
		b.ReplyRate = safeRate(b.Replied, b.Sent)
		b.PositiveRate = safeRate(b.Positive, b.Sent)
		buckets[key] = b
	}
}

func isPositive(intent string) bool {
	return intent == "positive" || intent == "referral"
}

func safeRate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(float64(numerator)/float64(denominator)*10000) / 10000
}

// Recommendation names the winning value for one attribute dimension.
type Recommendation struct {
	Dimension    string  `json:"dimension"`
	Winner       string  `json:"winner"`
	PositiveRate float64 `json:"positive_rate"`
	SampleSize   int     `json:"sample_size"`
	Summary      string  `json:"summary"`
}

// Patterns is the digest fed back into generation priorities.
type Patterns struct {
	Recommendations []Recommendation `json:"recommendations"`
	TopProofPoint   string           `json:"top_proof_point,omitempty"`
	TopChannel      string           `json:"top_channel,omitempty"`
	TopTone         string           `json:"top_tone,omitempty"`
	SampleSize      int              `json:"sample_size"`
	Confidence      string           `json:"confidence"` // high, medium, low
}

// WinningPatterns finds the best-performing attribute values that have
// enough sample behind them to mean anything. Confidence is a function
// of total volume: below 20 touches everything is noise, below 50 it
// is suggestive at best.
func (t *Tracker) WinningPatterns(now time.Time, days, minSample int) (*Patterns, error) {
	stats, err := t.ConversionStats(now, days)
	if err != nil {
		return nil, err
	}

	p := &Patterns{SampleSize: stats.Totals.TouchesSent}
	switch {
	case stats.Totals.TouchesSent >= 50:
		p.Confidence = "high"
	case stats.Totals.TouchesSent >= 20:
		p.Confidence = "medium"
	default:
		p.Confidence = "low"
	}

	for _, dim := range []struct {
		name    string
		buckets map[string]Bucket
	}{
		{"proof_point", stats.ByProofPoint},
		{"channel", stats.ByChannel},
		{"touch_number", stats.ByTouchNumber},
		{"tone", stats.ByTone},
		{"angle", stats.ByAngle},
	} {
		winner, bucket, ok := findWinner(dim.buckets, minSample)
		if !ok {
			continue
		}
		rec := Recommendation{
			Dimension:    dim.name,
			Winner:       winner,
			PositiveRate: bucket.PositiveRate,
			SampleSize:   bucket.Sent,
			Summary: fmt.Sprintf("'%s' %s leads with %.0f%% positive rate (n=%d)",
				winner, dim.name, bucket.PositiveRate*100, bucket.Sent),
		}
		p.Recommendations = append(p.Recommendations, rec)
		switch dim.name {
		case "proof_point":
			p.TopProofPoint = winner
		case "channel":
			p.TopChannel = winner
		case "tone":
			p.TopTone = winner
		}
	}
	return p, nil
}

func findWinner(buckets map[string]Bucket, minSample int) (string, Bucket, bool) {
	type candidate struct {
		key    string
		bucket Bucket
	}
	var candidates []candidate
	for key, b := range buckets {
		if key == "(unknown)" || b.Sent < minSample {
			continue
		}
		candidates = append(candidates, candidate{key, b})
	}
	if len(candidates) == 0 {
		return "", Bucket{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.bucket.PositiveRate != b.bucket.PositiveRate {
			return a.bucket.PositiveRate > b.bucket.PositiveRate
		}
		if a.bucket.ReplyRate != b.bucket.ReplyRate {
			return a.bucket.ReplyRate > b.bucket.ReplyRate
		}
		return a.key < b.key
	})
	return candidates[0].key, candidates[0].bucket, true
}

package feedback

import (
	"testing"
	"time"

	"cadence/adapters/store"
	"cadence/internal/artifact"
	"cadence/internal/message"
)

var trackNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func trackerArtifact() *artifact.ResearchArtifact {
	a := contradictionArtifact()
	a.Pains = []artifact.PainHypothesis{
		{
			Label:      "test maintenance burden",
			Confidence: 0.8,
			Evidence:   "job posting mentions flaky suite cleanup",
		},
	}
	a.BuiltAt = trackNow.AddDate(0, 0, -7)
	return a
}

func seedTouch(t *testing.T, st store.Store, tpID, variantID string, touchNumber int, tone message.Tone, ppKey, angle string, sentAt time.Time) {
	t.Helper()
	v := &message.Variant{
		ID:            variantID,
		ContactID:     "c-1",
		ArtifactID:    "art-1",
		TouchNumber:   touchNumber,
		Channel:       message.ChannelLinkedIn,
		TouchType:     message.TouchInMail,
		Tone:          tone,
		Body:          "placeholder body",
		PainHook:      "test maintenance burden",
		ProofPointKey: ppKey,
		Angle:         angle,
		CreatedAt:     sentAt,
	}
	if err := st.SaveVariant(v); err != nil {
		t.Fatalf("SaveVariant: %v", err)
	}
	tp := &store.Touchpoint{
		ID:          tpID,
		ContactID:   "c-1",
		VariantID:   variantID,
		TouchNumber: touchNumber,
		Channel:     string(message.ChannelLinkedIn),
		SentAt:      sentAt,
	}
	if err := st.SaveTouchpoint(tp); err != nil {
		t.Fatalf("SaveTouchpoint: %v", err)
	}
}

func TestRecordReplyLinksLatestTouchpoint(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	if err := st.SaveArtifact(trackerArtifact()); err != nil {
		t.Fatal(err)
	}
	seedTouch(t, st, "tp-1", "v-1", 1, message.ToneFriendly, "medibuddy_maintenance", "pain", trackNow.AddDate(0, 0, -3))
	seedTouch(t, st, "tp-2", "v-2", 3, message.ToneDirect, "cred_speed", "proof", trackNow.AddDate(0, 0, -1))

	reply, contradictions, err := tr.RecordReply(ReplyInput{
		ContactID: "c-1",
		Channel:   "linkedin",
		RawText:   "Sounds great, let's schedule something next week.",
	}, trackNow)
	if err != nil {
		t.Fatalf("RecordReply: %v", err)
	}
	if reply.TouchpointID != "tp-2" {
		t.Errorf("touchpoint = %q, want latest tp-2", reply.TouchpointID)
	}
	if reply.Intent != "positive" || reply.SentimentScore != 0.9 {
		t.Errorf("intent=%q score=%v, want positive/0.9", reply.Intent, reply.SentimentScore)
	}
	if reply.Bucket != "positive" {
		t.Errorf("bucket = %q, want positive", reply.Bucket)
	}
	if reply.Action != ActionScheduleMeeting {
		t.Errorf("action = %q, want %q", reply.Action, ActionScheduleMeeting)
	}
	if len(contradictions) != 0 {
		t.Errorf("unexpected contradictions: %+v", contradictions)
	}

	saved, err := st.ListRepliesForContact("c-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].ID != reply.ID {
		t.Errorf("reply not persisted: %+v", saved)
	}
}

func TestRecordReplyRecordsContradictionCorrections(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	if err := st.SaveArtifact(trackerArtifact()); err != nil {
		t.Fatal(err)
	}
	seedTouch(t, st, "tp-1", "v-1", 1, message.ToneFriendly, "medibuddy_maintenance", "pain", trackNow.AddDate(0, 0, -3))

	reply, contradictions, err := tr.RecordReply(ReplyInput{
		ContactID: "c-1",
		Channel:   "linkedin",
		RawText:   "Thanks, but we use cypress for all of this.",
	}, trackNow)
	if err != nil {
		t.Fatalf("RecordReply: %v", err)
	}
	if len(contradictions) != 1 {
		t.Fatalf("got %d contradictions, want 1", len(contradictions))
	}
	if reply.Bucket != "has_tool" {
		t.Errorf("bucket = %q, want has_tool", reply.Bucket)
	}

	corrections, err := st.ListCorrections("c-1", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(corrections) != 1 {
		t.Fatalf("got %d corrections, want 1", len(corrections))
	}
	c := corrections[0]
	if c.Field != "tech_stack" || c.Original != "Selenium" || c.Corrected != "cypress" {
		t.Errorf("correction = %+v", c)
	}
	if c.Source != "reply" {
		t.Errorf("source = %q, want reply", c.Source)
	}
}

func TestRecordReplyRefinesDeprioritizedPain(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	if err := st.SaveArtifact(trackerArtifact()); err != nil {
		t.Fatal(err)
	}

	_, _, err := tr.RecordReply(ReplyInput{
		ContactID: "c-1",
		Channel:   "email",
		RawText:   "Honestly this is not a priority for us this quarter.",
	}, trackNow)
	if err != nil {
		t.Fatalf("RecordReply: %v", err)
	}

	corrections, err := st.ListCorrections("c-1", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(corrections) != 1 {
		t.Fatalf("got %d corrections, want 1", len(corrections))
	}
	c := corrections[0]
	if c.Field != "pain" {
		t.Errorf("field = %q, want pain", c.Field)
	}
	if c.Original != "test maintenance burden" {
		t.Errorf("original = %q, want the leading pain", c.Original)
	}
	if c.Corrected != "deprioritized by prospect" {
		t.Errorf("corrected = %q", c.Corrected)
	}
	if c.Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6", c.Confidence)
	}
}

func saveToneSpread(t *testing.T, st store.Store, touchNumber int, createdAt time.Time) {
	t.Helper()
	for _, tone := range message.Tones {
		v := &message.Variant{
			ID:            "v-" + string(tone),
			ContactID:     "c-1",
			ArtifactID:    "art-1",
			TouchNumber:   touchNumber,
			Channel:       message.ChannelLinkedIn,
			TouchType:     message.TouchInMail,
			Tone:          tone,
			Body:          "placeholder body",
			ProofPointKey: "cred_speed",
			Angle:         "proof",
			CreatedAt:     createdAt,
		}
		if err := st.SaveVariant(v); err != nil {
			t.Fatalf("SaveVariant: %v", err)
		}
	}
}

func TestRecordTouchWritesTouchpoint(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	saveToneSpread(t, st, 1, trackNow.AddDate(0, 0, -1))

	tp, err := tr.RecordTouch(TouchInput{ContactID: "c-1", Tone: message.ToneDirect}, trackNow)
	if err != nil {
		t.Fatalf("RecordTouch: %v", err)
	}
	if tp.VariantID != "v-direct" {
		t.Errorf("variant = %q, want the direct rendition", tp.VariantID)
	}
	if tp.TouchNumber != 1 || tp.Channel != message.ChannelLinkedIn {
		t.Errorf("touchpoint = %+v", tp)
	}
	if !tp.SentAt.Equal(trackNow) {
		t.Errorf("sent at = %v, want now when unset", tp.SentAt)
	}

	saved, err := st.ListTouchpointsForContact("c-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].ID != tp.ID {
		t.Errorf("touchpoint not persisted: %+v", saved)
	}
}

func TestRecordTouchDefaultsToFriendlyTone(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	saveToneSpread(t, st, 1, trackNow.AddDate(0, 0, -1))

	tp, err := tr.RecordTouch(TouchInput{ContactID: "c-1"}, trackNow)
	if err != nil {
		t.Fatalf("RecordTouch: %v", err)
	}
	if tp.VariantID != "v-friendly" {
		t.Errorf("variant = %q, want the friendly rendition", tp.VariantID)
	}
}

func TestRecordTouchRejectsDuplicateTouch(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	seedTouch(t, st, "tp-1", "v-1", 1, message.ToneFriendly, "cred_speed", "proof", trackNow.AddDate(0, 0, -2))

	if _, err := tr.RecordTouch(TouchInput{ContactID: "c-1", VariantID: "v-1"}, trackNow); err == nil {
		t.Fatal("expected an error for a touch number already sent")
	}
}

func TestRecordTouchRequiresVariants(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)

	if _, err := tr.RecordTouch(TouchInput{ContactID: "c-none"}, trackNow); err == nil {
		t.Fatal("expected an error when nothing was generated")
	}
}

func TestRecordMeetingAttribution(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	seedTouch(t, st, "tp-1", "v-1", 3, message.ToneCurious, "cred_speed", "proof", trackNow.AddDate(0, 0, -2))

	outcome, attr, err := tr.RecordMeeting(MeetingInput{
		ContactID:           "c-1",
		TriggerTouchpointID: "tp-1",
		PipelineValue:       25000,
	}, trackNow)
	if err != nil {
		t.Fatalf("RecordMeeting: %v", err)
	}
	if outcome.Status != "meeting_booked" {
		t.Errorf("status = %q", outcome.Status)
	}
	if !outcome.MeetingDate.Equal(trackNow) {
		t.Errorf("meeting date = %v, want now when unset", outcome.MeetingDate)
	}
	if attr.Tone != message.ToneCurious || attr.ProofPointKey != "cred_speed" || attr.TouchNumber != 3 {
		t.Errorf("attribution = %+v", attr)
	}
	if attr.Channel != string(message.ChannelLinkedIn) {
		t.Errorf("channel = %q", attr.Channel)
	}

	saved, err := st.ListOutcomesForContact("c-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].PipelineValue != 25000 {
		t.Errorf("outcome not persisted: %+v", saved)
	}
}

func TestFullFunnel(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	if err := st.SaveArtifact(trackerArtifact()); err != nil {
		t.Fatal(err)
	}
	seedTouch(t, st, "tp-1", "v-1", 1, message.ToneFriendly, "medibuddy_maintenance", "pain", trackNow.AddDate(0, 0, -5))
	seedTouch(t, st, "tp-2", "v-2", 3, message.ToneDirect, "cred_speed", "proof", trackNow.AddDate(0, 0, -2))

	reply, _, err := tr.RecordReply(ReplyInput{
		ContactID: "c-1",
		Channel:   "linkedin",
		RawText:   "Interesting, send me more details.",
	}, trackNow.AddDate(0, 0, -1))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := tr.RecordMeeting(MeetingInput{
		ContactID:           "c-1",
		TriggerTouchpointID: "tp-2",
		TriggerReplyID:      reply.ID,
	}, trackNow); err != nil {
		t.Fatal(err)
	}

	f, err := tr.FullFunnel("c-1")
	if err != nil {
		t.Fatalf("FullFunnel: %v", err)
	}
	// touch, touch, reply, outcome
	if len(f.Chain) != 4 {
		t.Fatalf("chain length = %d, want 4: %+v", len(f.Chain), f.Chain)
	}
	kinds := []string{f.Chain[0].Kind, f.Chain[1].Kind, f.Chain[2].Kind, f.Chain[3].Kind}
	want := []string{"touch", "touch", "reply", "outcome"}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("chain[%d].Kind = %q, want %q", i, kinds[i], want[i])
		}
	}
	if f.Outcome != "meeting_booked" {
		t.Errorf("outcome = %q", f.Outcome)
	}
	if f.Winning == nil || f.Winning.ProofPointKey != "cred_speed" {
		t.Errorf("winning = %+v, want cred_speed attribution", f.Winning)
	}
}

func TestConversionStats(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	seedTouch(t, st, "tp-1", "v-1", 1, message.ToneFriendly, "medibuddy_maintenance", "pain", trackNow.AddDate(0, 0, -6))
	seedTouch(t, st, "tp-2", "v-2", 1, message.ToneDirect, "cred_speed", "proof", trackNow.AddDate(0, 0, -5))
	seedTouch(t, st, "tp-3", "v-3", 3, message.ToneFriendly, "medibuddy_maintenance", "pain", trackNow.AddDate(0, 0, -2))

	if _, _, err := tr.RecordReply(ReplyInput{
		ContactID:    "c-1",
		TouchpointID: "tp-1",
		Channel:      "linkedin",
		RawText:      "Sounds great, let's schedule something.",
	}, trackNow.AddDate(0, 0, -4)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := tr.RecordMeeting(MeetingInput{
		ContactID:           "c-1",
		TriggerTouchpointID: "tp-1",
	}, trackNow.AddDate(0, 0, -3)); err != nil {
		t.Fatal(err)
	}

	stats, err := tr.ConversionStats(trackNow, 30)
	if err != nil {
		t.Fatalf("ConversionStats: %v", err)
	}

	if stats.Totals.TouchesSent != 3 || stats.Totals.RepliesReceived != 1 {
		t.Errorf("totals = %+v", stats.Totals)
	}
	if stats.Totals.PositiveReplies != 1 || stats.Totals.MeetingsBooked != 1 {
		t.Errorf("totals = %+v", stats.Totals)
	}
	if stats.Totals.ReplyRate != 0.3333 {
		t.Errorf("reply rate = %v, want 0.3333", stats.Totals.ReplyRate)
	}

	medibuddy := stats.ByProofPoint["medibuddy_maintenance"]
	if medibuddy.Sent != 2 || medibuddy.Replied != 1 || medibuddy.Positive != 1 {
		t.Errorf("medibuddy bucket = %+v", medibuddy)
	}
	if medibuddy.PositiveRate != 0.5 {
		t.Errorf("medibuddy positive rate = %v", medibuddy.PositiveRate)
	}
	cred := stats.ByProofPoint["cred_speed"]
	if cred.Sent != 1 || cred.Replied != 0 {
		t.Errorf("cred bucket = %+v", cred)
	}

	friendly := stats.ByTone["friendly"]
	if friendly.Sent != 2 || friendly.Positive != 1 {
		t.Errorf("friendly bucket = %+v", friendly)
	}
	touch1 := stats.ByTouchNumber["1"]
	if touch1.Sent != 2 || touch1.Replied != 1 {
		t.Errorf("touch 1 bucket = %+v", touch1)
	}
}

func TestConversionStatsWindowExcludesOldTouches(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	seedTouch(t, st, "tp-old", "v-old", 1, message.ToneFriendly, "medibuddy_maintenance", "pain", trackNow.AddDate(0, 0, -120))
	seedTouch(t, st, "tp-new", "v-new", 1, message.ToneDirect, "cred_speed", "proof", trackNow.AddDate(0, 0, -5))

	stats, err := tr.ConversionStats(trackNow, 30)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Totals.TouchesSent != 1 {
		t.Errorf("touches sent = %d, want 1", stats.Totals.TouchesSent)
	}
	if _, ok := stats.ByProofPoint["medibuddy_maintenance"]; ok {
		t.Error("old touch leaked into the window")
	}
}

func TestWinningPatterns(t *testing.T) {
	st := store.NewMemStore()
	tr := NewTracker(st)
	seedTouch(t, st, "tp-1", "v-1", 1, message.ToneFriendly, "medibuddy_maintenance", "pain", trackNow.AddDate(0, 0, -6))
	seedTouch(t, st, "tp-2", "v-2", 1, message.ToneDirect, "cred_speed", "proof", trackNow.AddDate(0, 0, -5))

	if _, _, err := tr.RecordReply(ReplyInput{
		ContactID:    "c-1",
		TouchpointID: "tp-2",
		Channel:      "linkedin",
		RawText:      "Sounds great, let's schedule something.",
	}, trackNow.AddDate(0, 0, -4)); err != nil {
		t.Fatal(err)
	}

	p, err := tr.WinningPatterns(trackNow, 30, 1)
	if err != nil {
		t.Fatalf("WinningPatterns: %v", err)
	}
	if p.Confidence != "low" {
		t.Errorf("confidence = %q, want low at n=2", p.Confidence)
	}
	if p.TopProofPoint != "cred_speed" {
		t.Errorf("top proof point = %q, want cred_speed", p.TopProofPoint)
	}
	if p.TopTone != "direct" {
		t.Errorf("top tone = %q, want direct", p.TopTone)
	}
	if len(p.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}

	// Below the sample floor nothing qualifies.
	strict, err := tr.WinningPatterns(trackNow, 30, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(strict.Recommendations) != 0 {
		t.Errorf("expected no recommendations under min sample, got %+v", strict.Recommendations)
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/display"
	"cadence/internal/feedback"
)

var replyFlags struct {
	contactID    string
	touchpointID string
	channel      string
	tag          string
	summary      string
	text         string
}

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Record and classify an inbound reply",
	Long: `Score the reply's sentiment, link it to the touchpoint it answers
(latest touchpoint when --touchpoint is omitted), persist it, and
append correction rows for any research contradictions it contains.`,
	RunE: runReply,
}

func init() {
	f := replyCmd.Flags()
	f.StringVar(&replyFlags.contactID, "contact", "", "Contact ID (required)")
	f.StringVar(&replyFlags.touchpointID, "touchpoint", "", "Touchpoint ID (default: contact's latest)")
	f.StringVar(&replyFlags.channel, "channel", "linkedin", "Reply channel")
	f.StringVar(&replyFlags.tag, "tag", "", "Free-form reply tag")
	f.StringVar(&replyFlags.summary, "summary", "", "One-line summary")
	f.StringVar(&replyFlags.text, "text", "", "Raw reply text (required)")

	_ = replyCmd.MarkFlagRequired("contact")
	_ = replyCmd.MarkFlagRequired("text")
}

func runReply(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tracker := feedback.NewTracker(st)
	reply, contradictions, err := tracker.RecordReply(feedback.ReplyInput{
		ContactID:    replyFlags.contactID,
		TouchpointID: replyFlags.touchpointID,
		Channel:      replyFlags.channel,
		ReplyTag:     replyFlags.tag,
		Summary:      replyFlags.summary,
		RawText:      replyFlags.text,
	}, time.Now().UTC())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reply:      %s\n", reply.ID)
	fmt.Fprintf(out, "Touchpoint: %s\n", reply.TouchpointID)
	fmt.Fprintf(out, "Sentiment:  %.2f (%s)\n", reply.SentimentScore, display.Sentiment(reply.SentimentLabel))
	fmt.Fprintf(out, "Bucket:     %s\n", reply.Bucket)
	fmt.Fprintf(out, "Intent:     %s\n", reply.Intent)
	fmt.Fprintf(out, "Action:     %s\n", display.Action(reply.Action))
	if len(contradictions) > 0 {
		fmt.Fprintf(out, "Contradictions:\n")
		for _, c := range contradictions {
			fmt.Fprintf(out, "  %s: %s (confidence %.2f)\n", c.Field, c.Suggests, c.Confidence)
		}
	}
	return nil
}

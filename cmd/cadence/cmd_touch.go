package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/display"
	"cadence/internal/feedback"
	"cadence/internal/message"
)

var touchFlags struct {
	contactID string
	variantID string
	tone      string
	sentAt    string
}

var touchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Log that a generated variant was sent",
	Long: `Append a touchpoint row for a contact. With no --variant the
chosen tone's variant of the contact's newest generated touch is used.
The touchpoint log drives proof-point rotation, reply linking, and
funnel attribution, so record every send.`,
	RunE: runTouch,
}

func init() {
	f := touchCmd.Flags()
	f.StringVar(&touchFlags.contactID, "contact", "", "Contact ID (required)")
	f.StringVar(&touchFlags.variantID, "variant", "", "Variant ID (default: newest touch, selected by --tone)")
	f.StringVar(&touchFlags.tone, "tone", string(message.ToneFriendly), "Tone of the variant that went out")
	f.StringVar(&touchFlags.sentAt, "sent-at", "", "Send time, RFC 3339 (default: now)")

	_ = touchCmd.MarkFlagRequired("contact")
}

func runTouch(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var sentAt time.Time
	if touchFlags.sentAt != "" {
		sentAt, err = time.Parse(time.RFC3339, touchFlags.sentAt)
		if err != nil {
			return fmt.Errorf("parse --sent-at: %w", err)
		}
	}

	tracker := feedback.NewTracker(st)
	tp, err := tracker.RecordTouch(feedback.TouchInput{
		ContactID: touchFlags.contactID,
		VariantID: touchFlags.variantID,
		Tone:      message.Tone(touchFlags.tone),
		SentAt:    sentAt,
	}, time.Now().UTC())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Touchpoint: %s\n", tp.ID)
	fmt.Fprintf(out, "Touch:      %d via %s\n", tp.TouchNumber, display.Channel(tp.Channel))
	fmt.Fprintf(out, "Sent at:    %s\n", tp.SentAt.Format(time.RFC3339))
	return nil
}

package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/feedback"
	"cadence/internal/format"
)

var reportFlags struct {
	days      int
	minSample int
	contactID string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Conversion report from the event log",
	Long: `Print reply and positive-reply rates by proof point, channel, touch
number, tone, and angle, plus the winning patterns with enough sample
behind them. With --contact, print that contact's full funnel instead.`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.IntVar(&reportFlags.days, "days", 30, "Look-back window in days")
	f.IntVar(&reportFlags.minSample, "min-sample", 5, "Minimum sends for a winning-pattern bucket")
	f.StringVar(&reportFlags.contactID, "contact", "", "Print one contact's funnel instead of the aggregate report")
}

func runReport(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tracker := feedback.NewTracker(st)
	out := cmd.OutOrStdout()

	if reportFlags.contactID != "" {
		funnel, err := tracker.FullFunnel(reportFlags.contactID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Funnel for %s (outcome: %s)\n", funnel.ContactID, funnel.Outcome)
		for _, link := range funnel.Chain {
			switch link.Kind {
			case "touch":
				fmt.Fprintf(out, "  %s  touch %d via %s (proof: %s)\n",
					link.At.Format("2006-01-02"), link.TouchNumber, link.Channel, link.ProofPointKey)
			case "reply":
				fmt.Fprintf(out, "  %s  reply: %s (sentiment %.2f)\n",
					link.At.Format("2006-01-02"), link.Intent, link.SentimentScore)
			case "outcome":
				fmt.Fprintf(out, "  %s  outcome: %s\n", link.At.Format("2006-01-02"), link.Status)
			}
		}
		if funnel.Winning != nil && funnel.Winning.TouchNumber > 0 {
			fmt.Fprintf(out, "Winning touch: #%d %s / %s / %s\n",
				funnel.Winning.TouchNumber, funnel.Winning.Channel,
				funnel.Winning.Tone, funnel.Winning.ProofPointKey)
		}
		return nil
	}

	now := time.Now().UTC()
	stats, err := tracker.ConversionStats(now, reportFlags.days)
	if err != nil {
		return err
	}

	t := stats.Totals
	fmt.Fprintf(out, "Last %d days: %d touches, %d replies (%.1f%%), %d positive (%.1f%%), %d meetings (%.1f%%)\n\n",
		stats.PeriodDays, t.TouchesSent,
		t.RepliesReceived, t.ReplyRate*100,
		t.PositiveReplies, t.PositiveRate*100,
		t.MeetingsBooked, t.MeetingRate*100)

	printBuckets(out, "By proof point", stats.ByProofPoint)
	printBuckets(out, "By channel", stats.ByChannel)
	printBuckets(out, "By touch", stats.ByTouchNumber)
	printBuckets(out, "By tone", stats.ByTone)

	patterns, err := tracker.WinningPatterns(now, reportFlags.days, reportFlags.minSample)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Winning patterns (confidence: %s, n=%d)\n", patterns.Confidence, patterns.SampleSize)
	if len(patterns.Recommendations) == 0 {
		fmt.Fprintf(out, "  not enough sample yet (min %d sends per bucket)\n", reportFlags.minSample)
	}
	for _, rec := range patterns.Recommendations {
		fmt.Fprintf(out, "  %s\n", rec.Summary)
	}
	return nil
}

func printBuckets(out io.Writer, title string, buckets map[string]feedback.Bucket) {
	if len(buckets) == 0 {
		return
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tb := format.NewTable(format.ASCII)
	tb.Header(title, "Sent", "Replied", "Positive", "Reply rate", "Positive rate")
	for _, k := range keys {
		b := buckets[k]
		tb.Row(k, b.Sent, b.Replied, b.Positive,
			format.Percent(b.ReplyRate), format.Percent(b.PositiveRate))
	}
	tb.Columns(format.RightAlign(2, 3, 4, 5, 6)...)
	fmt.Fprintln(out, tb.String())
}

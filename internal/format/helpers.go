package format

import "fmt"

// Percent formats a 0–1 rate as a percentage with one decimal.
func Percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Delta formats a signed score delta, e.g. "+4.5" or "-0.3".
func Delta(d float64) string {
	return fmt.Sprintf("%+.1f", d)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}

package score

import (
	"math"
	"time"
)

// DecayEntry is one audit record of time-decay applied to a signal's
// scoring contribution. The raw signal itself is never modified.
type DecayEntry struct {
	SignalType string    `json:"signal_type"`
	ObservedAt time.Time `json:"observed_at"`
	Factor     float64   `json:"factor"`
}

// DecayFactor returns 0.5^(age/halfLife) for a signal age and a
// half-life in days. Ages at or below zero (clock skew, future-dated
// observations) yield 1: signals never gain strength from decay.
func DecayFactor(age time.Duration, halfLifeDays float64) float64 {
	if age <= 0 || halfLifeDays <= 0 {
		return 1
	}
	ageDays := age.Hours() / 24
	return math.Pow(0.5, ageDays/halfLifeDays)
}

package artifact

import (
	"fmt"
	"time"
)

// EvidenceError reports a claim-bearing entry that lacks its required
// citation. It is fatal for the artifact: scoring must not proceed.
type EvidenceError struct {
	Field  string // "hook", "pain", "tech_stack"
	Detail string
}

func (e *EvidenceError) Error() string {
	return fmt.Sprintf("evidence missing for %s: %s", e.Field, e.Detail)
}

// StaleDataError marks research older than the configured freshness
// bound. It is warning-grade: surfaced in DataQuality, never blocking.
type StaleDataError struct {
	Subject   string
	FetchedAt time.Time
	MaxAge    time.Duration
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("stale research for %s: fetched %s, freshness bound %s",
		e.Subject, e.FetchedAt.Format(time.RFC3339), e.MaxAge)
}

package artifact

import (
	"fmt"
	"strings"
	"time"
)

// CompanyResearch is a cached per-account research payload from the
// external research provider.
type CompanyResearch struct {
	Description   string    `json:"description,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	HiringSignals string    `json:"hiring_signals,omitempty"`
	FundingInfo   string    `json:"funding_info,omitempty"`
	RecentNews    string    `json:"recent_news,omitempty"`
	KnownTools    []string  `json:"known_tools,omitempty"`
	SourceURL     string    `json:"source_url,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// PersonResearch is a cached per-contact research payload.
type PersonResearch struct {
	Headline      string    `json:"headline,omitempty"`
	About         string    `json:"about,omitempty"`
	RecentlyHired bool      `json:"recently_hired,omitempty"`
	SourceURL     string    `json:"source_url,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// DetectSignals derives typed signals from cached research payloads.
// Signal timestamps come from the research fetch time, so decay during
// scoring reflects the age of the observation, not of the artifact.
func DetectSignals(company *CompanyResearch, person *PersonResearch) []Signal {
	var signals []Signal

	if company != nil {
		hiring := strings.ToLower(company.HiringSignals)
		if containsAny(hiring, "qa", "quality", "test", "sdet", "automation") {
			signals = append(signals, Signal{
				Type:       SignalHiringQA,
				ObservedAt: company.FetchedAt,
				Payload:    "QA-related hiring: " + company.HiringSignals,
			})
		}
		if company.FundingInfo != "" {
			signals = append(signals, Signal{
				Type:       SignalFunding,
				ObservedAt: company.FetchedAt,
				Payload:    "Recent funding: " + company.FundingInfo,
			})
		}
		news := strings.ToLower(company.RecentNews)
		if containsAny(news, "digital transformation", "migration", "modernization",
			"cloud", "platform", "replatform") {
			signals = append(signals, Signal{
				Type:       SignalTransformation,
				ObservedAt: company.FetchedAt,
				Payload:    "Transformation signal: " + company.RecentNews,
			})
		}
		if len(company.KnownTools) > 0 {
			signals = append(signals, Signal{
				Type:       SignalCompetitorTool,
				ObservedAt: company.FetchedAt,
				Payload:    fmt.Sprintf("Uses: %s", strings.Join(company.KnownTools, ", ")),
			})
		}
	}

	if person != nil && person.RecentlyHired {
		signals = append(signals, Signal{
			Type:       SignalRecentlyHired,
			ObservedAt: person.FetchedAt,
			Payload:    "New to role (< 6 months)",
		})
	}

	return signals
}

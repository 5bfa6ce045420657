package store

import (
	"time"

	"cadence/internal/artifact"
	"cadence/internal/message"
	"cadence/internal/score"
)

// DefaultDBPath is the default relative path for the SQLite DB
// (per-workspace). Open() creates the parent dir.
const DefaultDBPath = ".cadence/cadence.db"

// Store is the persistence facade for the pipeline's append-only data
// model. Artifacts, scores, and variants are immutable snapshots keyed
// by ID; touchpoints, replies, outcomes, and corrections are event rows
// that are written once and never updated. Re-scoring writes a new
// score row, it never rewrites an old one. Domain and CLI code use only
// this interface; the implementation is SQLite or in-memory.
type Store interface {
	// Artifact snapshots.
	SaveArtifact(a *artifact.ResearchArtifact) error
	GetArtifact(id string) (*artifact.ResearchArtifact, error)
	LatestArtifactForContact(contactID string) (*artifact.ResearchArtifact, error)
	ListArtifacts() ([]*artifact.ResearchArtifact, error)

	// Score snapshots. Every (artifact, config version) pairing is a
	// new row so config comparisons can replay history.
	SaveScore(r *score.Result) error
	GetScore(id string) (*score.Result, error)
	LatestScoreForArtifact(artifactID string) (*score.Result, error)
	ListScores() ([]*score.Result, error)

	// Variant snapshots.
	SaveVariant(v *message.Variant) error
	GetVariant(id string) (*message.Variant, error)
	ListVariantsForContact(contactID string) ([]*message.Variant, error)

	// Event rows.
	SaveTouchpoint(tp *Touchpoint) error
	GetTouchpoint(id string) (*Touchpoint, error)
	ListTouchpointsForContact(contactID string) ([]*Touchpoint, error)
	ListTouchpointsSince(cutoff time.Time) ([]*Touchpoint, error)

	SaveReply(r *Reply) error
	GetReply(id string) (*Reply, error)
	ListRepliesForContact(contactID string) ([]*Reply, error)
	ListRepliesSince(cutoff time.Time) ([]*Reply, error)

	SaveOutcome(o *Outcome) error
	ListOutcomesForContact(contactID string) ([]*Outcome, error)
	ListOutcomesSince(cutoff time.Time) ([]*Outcome, error)

	SaveCorrection(c *Correction) error
	ListCorrections(contactID string, since time.Time) ([]*Correction, error)

	SavePipelineError(e *PipelineError) error
	ListPipelineErrorsSince(cutoff time.Time) ([]*PipelineError, error)

	Close() error
}

// Package pipeline runs the full decision chain for batches of
// prospects: build artifact, score, generate the next due touch, gate,
// persist. Contacts are processed concurrently with a bounded worker
// pool; a failure on one contact is recorded and never aborts the rest
// of the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cadence/adapters/store"
	"cadence/internal/artifact"
	"cadence/internal/gate"
	"cadence/internal/logging"
	"cadence/internal/message"
	"cadence/internal/score"
)

// DefaultWorkers bounds batch concurrency when none is configured.
const DefaultWorkers = 4

// Config wires a Runner. Store and Cache are required; nil Weights,
// Catalog, and PainLibrary fall back to the embedded defaults.
type Config struct {
	Store       store.Store
	Cache       artifact.SignalCache
	Weights     *score.Config
	Catalog     *message.Catalog
	PainLibrary *artifact.PainLibrary
	Freshness   time.Duration
	Workers     int
}

// Runner executes the pipeline stages in order for each prospect.
type Runner struct {
	store   store.Store
	builder *artifact.Builder
	weights *score.Config
	catalog *message.Catalog
	gen     *message.Generator
	workers int
	log     *slog.Logger
}

func NewRunner(cfg Config) *Runner {
	if cfg.Weights == nil {
		cfg.Weights = score.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = message.DefaultCatalog()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Runner{
		store:   cfg.Store,
		builder: artifact.NewBuilder(cfg.Cache, cfg.PainLibrary, cfg.Freshness),
		weights: cfg.Weights,
		catalog: cfg.Catalog,
		gen:     message.NewGenerator(cfg.Catalog),
		workers: cfg.Workers,
		log:     logging.New("pipeline"),
	}
}

// Prospect is one batch input: the CRM records plus the known email
// address (empty when unknown, which skips the email touch).
type Prospect struct {
	Contact artifact.Contact
	Account artifact.Account
	Email   string
}

// ContactResult is the per-contact outcome of a batch run. Err is set
// when any stage failed; the stages that completed before the failure
// keep their outputs.
type ContactResult struct {
	ContactID    string
	Stage        string // last stage reached
	Artifact     *artifact.ResearchArtifact
	Score        *score.Result
	TouchNumber  int
	Variants     *message.VariantSet
	Reports      []gate.Report
	SequenceDone bool
	Err          error
}

// Batch is the aggregate outcome of a Run.
type Batch struct {
	Results   []ContactResult
	Succeeded int
	Failed    int
}

// Run processes the prospects with at most r.workers in flight.
// Per-contact errors land in the contact's result and in the
// pipeline_errors table; Run itself fails only on context cancellation.
func (r *Runner) Run(ctx context.Context, prospects []Prospect, now time.Time) (*Batch, error) {
	results := make([]ContactResult, len(prospects))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, p := range prospects {
		i, p := i, p
		g.Go(func() error {
			results[i] = r.runOne(gCtx, p, now)
			return nil
		})
	}
	_ = g.Wait() // errors captured per contact
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &Batch{Results: results}
	for i := range results {
		if results[i].Err != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}
	r.log.Info("batch complete",
		"prospects", len(prospects),
		"succeeded", batch.Succeeded,
		"failed", batch.Failed)
	return batch, nil
}

func (r *Runner) runOne(ctx context.Context, p Prospect, now time.Time) ContactResult {
	res := ContactResult{ContactID: p.Contact.ID}
	if err := ctx.Err(); err != nil {
		res.Stage = "canceled"
		res.Err = err
		return res
	}

	res.Stage = "build"
	a, err := r.builder.Build(p.Contact, p.Account, now)
	if err != nil {
		return r.fail(res, err, now)
	}
	if err := r.store.SaveArtifact(a); err != nil {
		return r.fail(res, fmt.Errorf("save artifact: %w", err), now)
	}
	res.Artifact = a

	res.Stage = "score"
	sc, err := score.FromArtifact(a, r.weights, now)
	if err != nil {
		return r.fail(res, err, now)
	}
	if err := r.store.SaveScore(sc); err != nil {
		return r.fail(res, fmt.Errorf("save score: %w", err), now)
	}
	res.Score = sc

	res.Stage = "generate"
	prior, sent, err := r.priorTouches(p.Contact.ID)
	if err != nil {
		return r.fail(res, err, now)
	}
	touchNumber, ok := nextTouch(string(sc.Tier), sent, p.Email != "")
	if !ok {
		res.SequenceDone = true
		res.Stage = "done"
		return res
	}
	res.TouchNumber = touchNumber

	set, err := r.gen.Generate(a, sc, touchNumber, prior, now)
	if err != nil {
		return r.fail(res, err, now)
	}
	for i := range set.Variants {
		if err := r.store.SaveVariant(&set.Variants[i]); err != nil {
			return r.fail(res, fmt.Errorf("save variant: %w", err), now)
		}
	}
	res.Variants = set

	res.Stage = "gate"
	res.Reports = gate.CheckSet(set, r.catalog, prior)
	res.Stage = "done"
	return res
}

// fail records the error against the contact in pipeline_errors and
// returns the partial result. A failed save of the error row is logged
// and swallowed: the original error is the one worth surfacing.
func (r *Runner) fail(res ContactResult, err error, now time.Time) ContactResult {
	res.Err = err
	row := &store.PipelineError{
		ID:        uuid.NewString(),
		ContactID: res.ContactID,
		Stage:     res.Stage,
		Message:   err.Error(),
		CreatedAt: now,
	}
	if saveErr := r.store.SavePipelineError(row); saveErr != nil {
		r.log.Warn("pipeline error row not saved", "contact_id", res.ContactID, "error", saveErr)
	}

	var evErr *message.InsufficientEvidenceError
	if errors.As(err, &evErr) {
		r.log.Warn("contact skipped, insufficient evidence", "contact_id", res.ContactID)
	} else {
		r.log.Error("pipeline stage failed",
			"contact_id", res.ContactID, "stage", res.Stage, "error", err)
	}
	return res
}

// priorTouches reconstructs the rotation state for a contact from the
// touchpoint log. Rotation never comes from regenerated drafts: only
// touches actually sent count.
func (r *Runner) priorTouches(contactID string) ([]message.PriorTouch, map[int]bool, error) {
	tps, err := r.store.ListTouchpointsForContact(contactID)
	if err != nil {
		return nil, nil, fmt.Errorf("list touchpoints: %w", err)
	}
	sent := make(map[int]bool, len(tps))
	var prior []message.PriorTouch
	for _, tp := range tps {
		sent[tp.TouchNumber] = true
		pt := message.PriorTouch{TouchNumber: tp.TouchNumber}
		if tp.VariantID != "" {
			if v, err := r.store.GetVariant(tp.VariantID); err == nil && v != nil {
				pt.ProofPointKey = v.ProofPointKey
				pt.Angle = v.Angle
			}
		}
		prior = append(prior, pt)
	}
	return prior, sent, nil
}

// nextTouch picks the first touch in the tier's cadence not yet sent.
// The email touch is skipped when no address is known. ok=false means
// the cadence is exhausted for this contact.
func nextTouch(tier string, sent map[int]bool, hasEmail bool) (int, bool) {
	plan, ok := message.Cadences[tier]
	if !ok {
		plan = message.Cadences["warm"]
	}
	for _, n := range plan.Touches {
		if sent[n] {
			continue
		}
		if n == 5 && !hasEmail {
			continue
		}
		return n, true
	}
	return 0, false
}

package store

import (
	"sort"
	"sync"
	"time"

	"cadence/internal/artifact"
	"cadence/internal/message"
	"cadence/internal/score"
)

// MemStore is the in-memory Store twin, used in tests and demo runs.
// Same append-only contract as SqlStore: rows go in, rows never change.
type MemStore struct {
	mu sync.RWMutex

	artifacts   []artifact.ResearchArtifact
	scores      []score.Result
	variants    []message.Variant
	touchpoints []Touchpoint
	replies     []Reply
	outcomes    []Outcome
	corrections []Correction
	errors      []PipelineError
}

func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Close() error { return nil }

func (m *MemStore) SaveArtifact(a *artifact.ResearchArtifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts = append(m.artifacts, *a)
	return nil
}

func (m *MemStore) GetArtifact(id string) (*artifact.ResearchArtifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.artifacts {
		if m.artifacts[i].ID == id {
			a := m.artifacts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MemStore) LatestArtifactForContact(contactID string) (*artifact.ResearchArtifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *artifact.ResearchArtifact
	for i := range m.artifacts {
		a := m.artifacts[i]
		if a.Contact.ID != contactID {
			continue
		}
		if best == nil || a.BuiltAt.After(best.BuiltAt) {
			copied := a
			best = &copied
		}
	}
	return best, nil
}

func (m *MemStore) ListArtifacts() ([]*artifact.ResearchArtifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*artifact.ResearchArtifact, 0, len(m.artifacts))
	for i := range m.artifacts {
		a := m.artifacts[i]
		out = append(out, &a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BuiltAt.Before(out[j].BuiltAt) })
	return out, nil
}

func (m *MemStore) SaveScore(r *score.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, *r)
	return nil
}

func (m *MemStore) GetScore(id string) (*score.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.scores {
		if m.scores[i].ID == id {
			r := m.scores[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemStore) LatestScoreForArtifact(artifactID string) (*score.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *score.Result
	for i := range m.scores {
		r := m.scores[i]
		if r.ArtifactID != artifactID {
			continue
		}
		if best == nil || r.ScoredAt.After(best.ScoredAt) {
			copied := r
			best = &copied
		}
	}
	return best, nil
}

func (m *MemStore) ListScores() ([]*score.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*score.Result, 0, len(m.scores))
	for i := range m.scores {
		r := m.scores[i]
		out = append(out, &r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScoredAt.Before(out[j].ScoredAt) })
	return out, nil
}

func (m *MemStore) SaveVariant(v *message.Variant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variants = append(m.variants, *v)
	return nil
}

func (m *MemStore) GetVariant(id string) (*message.Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.variants {
		if m.variants[i].ID == id {
			v := m.variants[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (m *MemStore) ListVariantsForContact(contactID string) ([]*message.Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*message.Variant
	for i := range m.variants {
		if m.variants[i].ContactID == contactID {
			v := m.variants[i]
			out = append(out, &v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) SaveTouchpoint(tp *Touchpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touchpoints = append(m.touchpoints, *tp)
	return nil
}

func (m *MemStore) GetTouchpoint(id string) (*Touchpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.touchpoints {
		if m.touchpoints[i].ID == id {
			tp := m.touchpoints[i]
			return &tp, nil
		}
	}
	return nil, nil
}

func (m *MemStore) ListTouchpointsForContact(contactID string) ([]*Touchpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Touchpoint
	for i := range m.touchpoints {
		if m.touchpoints[i].ContactID == contactID {
			tp := m.touchpoints[i]
			out = append(out, &tp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (m *MemStore) ListTouchpointsSince(cutoff time.Time) ([]*Touchpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Touchpoint
	for i := range m.touchpoints {
		if !m.touchpoints[i].SentAt.Before(cutoff) {
			tp := m.touchpoints[i]
			out = append(out, &tp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (m *MemStore) SaveReply(r *Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, *r)
	return nil
}

func (m *MemStore) GetReply(id string) (*Reply, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.replies {
		if m.replies[i].ID == id {
			r := m.replies[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemStore) ListRepliesForContact(contactID string) ([]*Reply, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Reply
	for i := range m.replies {
		if m.replies[i].ContactID == contactID {
			r := m.replies[i]
			out = append(out, &r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RepliedAt.Before(out[j].RepliedAt) })
	return out, nil
}

func (m *MemStore) ListRepliesSince(cutoff time.Time) ([]*Reply, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Reply
	for i := range m.replies {
		if !m.replies[i].RepliedAt.Before(cutoff) {
			r := m.replies[i]
			out = append(out, &r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RepliedAt.Before(out[j].RepliedAt) })
	return out, nil
}

func (m *MemStore) SaveOutcome(o *Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, *o)
	return nil
}

func (m *MemStore) ListOutcomesForContact(contactID string) ([]*Outcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Outcome
	for i := range m.outcomes {
		if m.outcomes[i].ContactID == contactID {
			o := m.outcomes[i]
			out = append(out, &o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) ListOutcomesSince(cutoff time.Time) ([]*Outcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Outcome
	for i := range m.outcomes {
		if !m.outcomes[i].CreatedAt.Before(cutoff) {
			o := m.outcomes[i]
			out = append(out, &o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) SaveCorrection(c *Correction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrections = append(m.corrections, *c)
	return nil
}

func (m *MemStore) ListCorrections(contactID string, since time.Time) ([]*Correction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Correction
	for i := range m.corrections {
		c := m.corrections[i]
		if c.CreatedAt.Before(since) {
			continue
		}
		if contactID != "" && c.ContactID != contactID {
			continue
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) SavePipelineError(e *PipelineError) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, *e)
	return nil
}

func (m *MemStore) ListPipelineErrorsSince(cutoff time.Time) ([]*PipelineError, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*PipelineError
	for i := range m.errors {
		if !m.errors[i].CreatedAt.Before(cutoff) {
			e := m.errors[i]
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

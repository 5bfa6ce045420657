package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cadence/internal/artifact"
	"cadence/internal/message"
	"cadence/internal/score"
)

// SqlStore implements Store on SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path, creating the parent
// directory and applying the schema.
func Open(path string) (*SqlStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return initStore(db)
}

// OpenMemory opens an in-memory SQLite DB for testing.
func OpenMemory() (*SqlStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory sqlite: %w", err)
	}
	// A memory DB exists per connection; keep exactly one.
	db.SetMaxOpenConns(1)
	return initStore(db)
}

func initStore(db *sql.DB) (*SqlStore, error) {
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SqlStore{db: db}, nil
}

func (s *SqlStore) Close() error { return s.db.Close() }

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ---------------------------------------------------------------
// Artifact snapshots
// ---------------------------------------------------------------

func (s *SqlStore) SaveArtifact(a *artifact.ResearchArtifact) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO artifacts(id, contact_id, account_id, vertical, quality_score, built_at, payload)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Contact.ID, a.Account.ID, a.Account.Vertical,
		a.DataQuality.Score, fmtTime(a.BuiltAt), payload,
	)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

func (s *SqlStore) GetArtifact(id string) (*artifact.ResearchArtifact, error) {
	return scanArtifact(s.db.QueryRow(`SELECT payload FROM artifacts WHERE id = ?`, id))
}

func (s *SqlStore) LatestArtifactForContact(contactID string) (*artifact.ResearchArtifact, error) {
	return scanArtifact(s.db.QueryRow(
		`SELECT payload FROM artifacts WHERE contact_id = ? ORDER BY built_at DESC LIMIT 1`,
		contactID))
}

func (s *SqlStore) ListArtifacts() ([]*artifact.ResearchArtifact, error) {
	rows, err := s.db.Query(`SELECT payload FROM artifacts ORDER BY built_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var out []*artifact.ResearchArtifact
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		var a artifact.ResearchArtifact
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("unmarshal artifact: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func scanArtifact(row *sql.Row) (*artifact.ResearchArtifact, error) {
	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	var a artifact.ResearchArtifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}
	return &a, nil
}

// ---------------------------------------------------------------
// Score snapshots
// ---------------------------------------------------------------

func (s *SqlStore) SaveScore(r *score.Result) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO scores(id, artifact_id, contact_id, config_version, total, tier, scored_at, payload)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ArtifactID, r.ContactID, r.ConfigVersion, r.Total, r.Tier,
		fmtTime(r.ScoredAt), payload,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *SqlStore) GetScore(id string) (*score.Result, error) {
	return scanScore(s.db.QueryRow(`SELECT payload FROM scores WHERE id = ?`, id))
}

func (s *SqlStore) LatestScoreForArtifact(artifactID string) (*score.Result, error) {
	return scanScore(s.db.QueryRow(
		`SELECT payload FROM scores WHERE artifact_id = ? ORDER BY scored_at DESC LIMIT 1`,
		artifactID))
}

func (s *SqlStore) ListScores() ([]*score.Result, error) {
	rows, err := s.db.Query(`SELECT payload FROM scores ORDER BY scored_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []*score.Result
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		var r score.Result
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("unmarshal score: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func scanScore(row *sql.Row) (*score.Result, error) {
	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get score: %w", err)
	}
	var r score.Result
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("unmarshal score: %w", err)
	}
	return &r, nil
}

// ---------------------------------------------------------------
// Variant snapshots
// ---------------------------------------------------------------

func (s *SqlStore) SaveVariant(v *message.Variant) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal variant: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO variants(id, contact_id, artifact_id, score_id, touch_number, tone, proof_point_key, angle, created_at, payload)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.ContactID, v.ArtifactID, v.ScoreID, v.TouchNumber, string(v.Tone),
		v.ProofPointKey, v.Angle, fmtTime(v.CreatedAt), payload,
	)
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (s *SqlStore) GetVariant(id string) (*message.Variant, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM variants WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	var v message.Variant
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("unmarshal variant: %w", err)
	}
	return &v, nil
}

func (s *SqlStore) ListVariantsForContact(contactID string) ([]*message.Variant, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM variants WHERE contact_id = ? ORDER BY created_at ASC`, contactID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var out []*message.Variant
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		var v message.Variant
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("unmarshal variant: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------
// Event rows
// ---------------------------------------------------------------

func (s *SqlStore) SaveTouchpoint(tp *Touchpoint) error {
	_, err := s.db.Exec(
		`INSERT INTO touchpoints(id, contact_id, variant_id, touch_number, channel, sent_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		tp.ID, tp.ContactID, tp.VariantID, tp.TouchNumber, tp.Channel, fmtTime(tp.SentAt),
	)
	if err != nil {
		return fmt.Errorf("insert touchpoint: %w", err)
	}
	return nil
}

func (s *SqlStore) GetTouchpoint(id string) (*Touchpoint, error) {
	tp := &Touchpoint{}
	var sentAt string
	err := s.db.QueryRow(
		`SELECT id, contact_id, variant_id, touch_number, channel, sent_at
		 FROM touchpoints WHERE id = ?`, id,
	).Scan(&tp.ID, &tp.ContactID, &tp.VariantID, &tp.TouchNumber, &tp.Channel, &sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get touchpoint: %w", err)
	}
	tp.SentAt = parseTime(sentAt)
	return tp, nil
}

func (s *SqlStore) ListTouchpointsForContact(contactID string) ([]*Touchpoint, error) {
	return s.queryTouchpoints(
		`SELECT id, contact_id, variant_id, touch_number, channel, sent_at
		 FROM touchpoints WHERE contact_id = ? ORDER BY sent_at ASC`, contactID)
}

func (s *SqlStore) ListTouchpointsSince(cutoff time.Time) ([]*Touchpoint, error) {
	return s.queryTouchpoints(
		`SELECT id, contact_id, variant_id, touch_number, channel, sent_at
		 FROM touchpoints WHERE sent_at >= ? ORDER BY sent_at ASC`, fmtTime(cutoff))
}

func (s *SqlStore) queryTouchpoints(query string, arg any) ([]*Touchpoint, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list touchpoints: %w", err)
	}
	defer rows.Close()

	var out []*Touchpoint
	for rows.Next() {
		tp := &Touchpoint{}
		var sentAt string
		if err := rows.Scan(&tp.ID, &tp.ContactID, &tp.VariantID, &tp.TouchNumber, &tp.Channel, &sentAt); err != nil {
			return nil, fmt.Errorf("scan touchpoint: %w", err)
		}
		tp.SentAt = parseTime(sentAt)
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (s *SqlStore) SaveReply(r *Reply) error {
	_, err := s.db.Exec(
		`INSERT INTO replies(id, contact_id, touchpoint_id, channel, intent, reply_tag,
		     summary, raw_text, sentiment_score, sentiment_label, bucket, action, replied_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ContactID, r.TouchpointID, r.Channel, r.Intent, r.ReplyTag,
		r.Summary, r.RawText, r.SentimentScore, r.SentimentLabel, r.Bucket, r.Action,
		fmtTime(r.RepliedAt),
	)
	if err != nil {
		return fmt.Errorf("insert reply: %w", err)
	}
	return nil
}

func (s *SqlStore) GetReply(id string) (*Reply, error) {
	out, err := s.queryReplies(`SELECT id, contact_id, touchpoint_id, channel, intent, reply_tag,
		summary, raw_text, sentiment_score, sentiment_label, bucket, action, replied_at
		FROM replies WHERE id = ?`, id)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (s *SqlStore) ListRepliesForContact(contactID string) ([]*Reply, error) {
	return s.queryReplies(`SELECT id, contact_id, touchpoint_id, channel, intent, reply_tag,
		summary, raw_text, sentiment_score, sentiment_label, bucket, action, replied_at
		FROM replies WHERE contact_id = ? ORDER BY replied_at ASC`, contactID)
}

func (s *SqlStore) ListRepliesSince(cutoff time.Time) ([]*Reply, error) {
	return s.queryReplies(`SELECT id, contact_id, touchpoint_id, channel, intent, reply_tag,
		summary, raw_text, sentiment_score, sentiment_label, bucket, action, replied_at
		FROM replies WHERE replied_at >= ? ORDER BY replied_at ASC`, fmtTime(cutoff))
}

func (s *SqlStore) queryReplies(query string, arg any) ([]*Reply, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var out []*Reply
	for rows.Next() {
		r := &Reply{}
		var repliedAt string
		if err := rows.Scan(&r.ID, &r.ContactID, &r.TouchpointID, &r.Channel, &r.Intent,
			&r.ReplyTag, &r.Summary, &r.RawText, &r.SentimentScore, &r.SentimentLabel,
			&r.Bucket, &r.Action, &repliedAt); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		r.RepliedAt = parseTime(repliedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SqlStore) SaveOutcome(o *Outcome) error {
	meetingDate := ""
	if !o.MeetingDate.IsZero() {
		meetingDate = fmtTime(o.MeetingDate)
	}
	_, err := s.db.Exec(
		`INSERT INTO outcomes(id, contact_id, status, meeting_date, pipeline_value,
		     trigger_touchpoint_id, trigger_reply_id, notes, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ContactID, o.Status, meetingDate, o.PipelineValue,
		o.TriggerTouchpointID, o.TriggerReplyID, o.Notes, fmtTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

func (s *SqlStore) ListOutcomesForContact(contactID string) ([]*Outcome, error) {
	return s.queryOutcomes(`SELECT id, contact_id, status, meeting_date, pipeline_value,
		trigger_touchpoint_id, trigger_reply_id, notes, created_at
		FROM outcomes WHERE contact_id = ? ORDER BY created_at ASC`, contactID)
}

func (s *SqlStore) ListOutcomesSince(cutoff time.Time) ([]*Outcome, error) {
	return s.queryOutcomes(`SELECT id, contact_id, status, meeting_date, pipeline_value,
		trigger_touchpoint_id, trigger_reply_id, notes, created_at
		FROM outcomes WHERE created_at >= ? ORDER BY created_at ASC`, fmtTime(cutoff))
}

func (s *SqlStore) queryOutcomes(query string, arg any) ([]*Outcome, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []*Outcome
	for rows.Next() {
		o := &Outcome{}
		var meetingDate, createdAt string
		if err := rows.Scan(&o.ID, &o.ContactID, &o.Status, &meetingDate, &o.PipelineValue,
			&o.TriggerTouchpointID, &o.TriggerReplyID, &o.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.MeetingDate = parseTime(meetingDate)
		o.CreatedAt = parseTime(createdAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SqlStore) SaveCorrection(c *Correction) error {
	_, err := s.db.Exec(
		`INSERT INTO corrections(id, contact_id, field, original, corrected, source, confidence, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ContactID, c.Field, c.Original, c.Corrected, c.Source, c.Confidence,
		fmtTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert correction: %w", err)
	}
	return nil
}

func (s *SqlStore) ListCorrections(contactID string, since time.Time) ([]*Correction, error) {
	query := `SELECT id, contact_id, field, original, corrected, source, confidence, created_at
		FROM corrections WHERE created_at >= ?`
	args := []any{fmtTime(since)}
	if contactID != "" {
		query += ` AND contact_id = ?`
		args = append(args, contactID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	var out []*Correction
	for rows.Next() {
		c := &Correction{}
		var createdAt string
		if err := rows.Scan(&c.ID, &c.ContactID, &c.Field, &c.Original, &c.Corrected,
			&c.Source, &c.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SqlStore) SavePipelineError(e *PipelineError) error {
	_, err := s.db.Exec(
		`INSERT INTO pipeline_errors(id, contact_id, stage, message, created_at)
		 VALUES(?, ?, ?, ?, ?)`,
		e.ID, e.ContactID, e.Stage, e.Message, fmtTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert pipeline error: %w", err)
	}
	return nil
}

func (s *SqlStore) ListPipelineErrorsSince(cutoff time.Time) ([]*PipelineError, error) {
	rows, err := s.db.Query(
		`SELECT id, contact_id, stage, message, created_at
		 FROM pipeline_errors WHERE created_at >= ? ORDER BY created_at ASC`, fmtTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("list pipeline errors: %w", err)
	}
	defer rows.Close()

	var out []*PipelineError
	for rows.Next() {
		e := &PipelineError{}
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ContactID, &e.Stage, &e.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pipeline error: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

package store

// schemaDDL creates the full v1 schema. Snapshot tables carry the
// interesting query keys as columns and the full record as a JSON
// payload; event tables are plain columns. No table has an UPDATE path.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS artifacts (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	vertical TEXT NOT NULL DEFAULT '',
	quality_score REAL NOT NULL DEFAULT 0,
	built_at TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_contact ON artifacts(contact_id, built_at);

CREATE TABLE IF NOT EXISTS scores (
	id TEXT PRIMARY KEY,
	artifact_id TEXT NOT NULL,
	contact_id TEXT NOT NULL,
	config_version TEXT NOT NULL,
	total REAL NOT NULL,
	tier TEXT NOT NULL,
	scored_at TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_artifact ON scores(artifact_id, scored_at);

CREATE TABLE IF NOT EXISTS variants (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	artifact_id TEXT NOT NULL,
	score_id TEXT NOT NULL DEFAULT '',
	touch_number INTEGER NOT NULL,
	tone TEXT NOT NULL,
	proof_point_key TEXT NOT NULL DEFAULT '',
	angle TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_variants_contact ON variants(contact_id, created_at);

CREATE TABLE IF NOT EXISTS touchpoints (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	variant_id TEXT NOT NULL DEFAULT '',
	touch_number INTEGER NOT NULL,
	channel TEXT NOT NULL,
	sent_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_touchpoints_contact ON touchpoints(contact_id, sent_at);

CREATE TABLE IF NOT EXISTS replies (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	touchpoint_id TEXT NOT NULL DEFAULT '',
	channel TEXT NOT NULL,
	intent TEXT NOT NULL,
	reply_tag TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	raw_text TEXT NOT NULL DEFAULT '',
	sentiment_score REAL NOT NULL DEFAULT 0,
	sentiment_label TEXT NOT NULL DEFAULT '',
	bucket TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL DEFAULT '',
	replied_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_replies_contact ON replies(contact_id, replied_at);

CREATE TABLE IF NOT EXISTS outcomes (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	status TEXT NOT NULL,
	meeting_date TEXT NOT NULL DEFAULT '',
	pipeline_value REAL NOT NULL DEFAULT 0,
	trigger_touchpoint_id TEXT NOT NULL DEFAULT '',
	trigger_reply_id TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_contact ON outcomes(contact_id, created_at);

CREATE TABLE IF NOT EXISTS corrections (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	field TEXT NOT NULL,
	original TEXT NOT NULL,
	corrected TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'reply',
	confidence REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_corrections_contact ON corrections(contact_id, created_at);

CREATE TABLE IF NOT EXISTS pipeline_errors (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pipeline_errors_at ON pipeline_errors(created_at);
`

// Package sqlitestore provides a SQLite-backed moderation.Store.
// It mirrors the semantics of the boltstore package on a relational
// schema; pick one backend via configuration.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "modernc.org/sqlite"
)

// schema is applied on open. Timestamps are stored as RFC3339Nano text.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                 TEXT PRIMARY KEY,
	username           TEXT NOT NULL DEFAULT '',
	email              TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT 'active',
	ban_expires_at     TEXT,
	ban_reason         TEXT NOT NULL DEFAULT '',
	no_show_count      INTEGER NOT NULL DEFAULT 0,
	main_photo_url     TEXT NOT NULL DEFAULT '',
	photo_status       TEXT NOT NULL DEFAULT '',
	photo_submitted_at TEXT,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id               TEXT PRIMARY KEY,
	reporter_id      TEXT NOT NULL,
	reported_user_id TEXT NOT NULL DEFAULT '',
	target_type      TEXT NOT NULL,
	target_id        TEXT NOT NULL,
	report_type      TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'pending',
	reviewer_id      TEXT NOT NULL DEFAULT '',
	reviewed_at      TEXT,
	resolution_notes TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created ON reports (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_reports_tuple   ON reports (reporter_id, target_type, target_id, report_type, created_at);
CREATE INDEX IF NOT EXISTS idx_reports_subject ON reports (reported_user_id);

CREATE TABLE IF NOT EXISTS audit_log (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	action     TEXT NOT NULL,
	actor_id   TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	details    TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_user ON audit_log (user_id, created_at);

CREATE TABLE IF NOT EXISTS posts (
	id         TEXT PRIMARY KEY,
	author_id  TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'active',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id         TEXT PRIMARY KEY,
	author_id  TEXT NOT NULL,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_refs (
	id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS community_refs (
	id TEXT PRIMARY KEY
);
`

// Open opens (or creates) the SQLite database at path and applies the
// schema. The connection is instrumented with otelsql so queries appear
// on traces.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := otelsql.Open("sqlite", path, otelsql.WithAttributes(semconv.DBSystemSqlite))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite serializes writes; one writer connection avoids
	// SQLITE_BUSY under concurrent mutations.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

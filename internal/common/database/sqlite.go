package database

import (
	"context"
	"database/sql"
	"fmt"

	"recommender-workers/internal/common/config"

	_ "modernc.org/sqlite"
)

// NewSQLite opens a file-backed sqlite database for local runs and tooling.
// sqlite allows one writer, so the pool is pinned to a single connection.
func NewSQLite(cfg config.SQLiteConfig) (*SQLClient, error) {
	db, err := sql.Open("sqlite", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1)

	return &SQLClient{DB: db, Driver: config.DriverSQLite}, nil
}

// sqliteSchema mirrors the postgres tables the workers read and write.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS programs (
	program_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	program_code TEXT NOT NULL UNIQUE,
	program_name TEXT NOT NULL,
	is_active    BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS rules (
	rule_id                TEXT PRIMARY KEY,
	rule_description       TEXT,
	conditions             TEXT NOT NULL,
	recommended_program_id INTEGER NOT NULL REFERENCES programs(program_id),
	confidence_score       REAL CHECK (confidence_score >= 0 AND confidence_score <= 100),
	justification          TEXT NOT NULL,
	is_active              BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS recommendations (
	recommendation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id        INTEGER NOT NULL,
	response_id       INTEGER NOT NULL,
	program_id        INTEGER NOT NULL,
	rank_position     INTEGER NOT NULL,
	confidence_score  REAL NOT NULL,
	justification     TEXT NOT NULL,
	rules_triggered   TEXT NOT NULL,
	run_id            TEXT,
	student_feedback  TEXT,
	created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates the rule and recommendation tables on sqlite. Postgres
// schemas are owned by migrations and are left untouched.
func (c *SQLClient) EnsureSchema(ctx context.Context) error {
	if c.Driver != config.DriverSQLite {
		return nil
	}
	if _, err := c.DB.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return nil
}

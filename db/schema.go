// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}

	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The vote primary key is the single admission arbiter: one row per voter, ever.
const postgresSchema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    identity TEXT PRIMARY KEY,
    secret_hash TEXT NOT NULL,
    hash_cost INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    voter_id TEXT PRIMARY KEY REFERENCES voter(identity) ON DELETE RESTRICT,
    candidate TEXT NOT NULL CHECK (candidate <> ''),
    cast_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate ON vote(candidate);
`

const sqliteSchema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    identity TEXT PRIMARY KEY,
    secret_hash TEXT NOT NULL,
    hash_cost INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    voter_id TEXT PRIMARY KEY REFERENCES voter(identity) ON DELETE RESTRICT,
    candidate TEXT NOT NULL CHECK (candidate <> ''),
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate ON vote(candidate);
`

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/quickly-vote/models"
)

// Votes is the vote ledger. There is no update or delete path.
type Votes struct {
	db *sqlx.DB
}

func NewVotes(db *sqlx.DB) *Votes {
	return &Votes{db: db}
}

// Insert admits a vote if the voter has none. It is a single conditional
// insert keyed on voter_id, so of any number of concurrent calls for one
// voter exactly one returns nil and the rest return ErrDuplicate.
// ErrMissingVoter means no voter row exists for v.VoterID.
func (s *Votes) Insert(ctx context.Context, v models.Vote) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO vote (voter_id, candidate, cast_at)
		VALUES (?, ?, ?)
		ON CONFLICT (voter_id) DO NOTHING
	`), v.VoterID, v.Candidate, v.CastAt)
	if err != nil {
		return classify(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

// Get returns the vote cast by voterID or ErrNotFound
func (s *Votes) Get(ctx context.Context, voterID string) (models.Vote, error) {
	var v models.Vote
	err := s.db.GetContext(ctx, &v, s.db.Rebind(`
		SELECT voter_id, candidate, cast_at
		FROM vote
		WHERE voter_id = ?
	`), voterID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, classify(err)
	}
	return v, nil
}

// Exists reports whether voterID has a vote on record
func (s *Votes) Exists(ctx context.Context, voterID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, s.db.Rebind(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE voter_id = ?)
	`), voterID)
	if err != nil {
		return false, classify(err)
	}
	return exists, nil
}

// CountByCandidate groups committed votes by candidate. Rows come back in
// no particular order.
func (s *Votes) CountByCandidate(ctx context.Context) ([]models.TallyEntry, error) {
	entries := []models.TallyEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT candidate, COUNT(*) AS votes
		FROM vote
		GROUP BY candidate
	`)
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

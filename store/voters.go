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

// Voters persists credential records. A row's identity never changes; only
// its hash is rewritten, and only to a stronger cost.
type Voters struct {
	db *sqlx.DB
}

func NewVoters(db *sqlx.DB) *Voters {
	return &Voters{db: db}
}

// Create inserts a voter. The primary key on identity decides races between
// concurrent registrations: the loser gets ErrDuplicate.
func (s *Voters) Create(ctx context.Context, v models.Voter) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO voter (identity, secret_hash, hash_cost, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (identity) DO NOTHING
	`), v.Identity, v.SecretHash, v.HashCost, v.CreatedAt)
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

// Get returns the voter with the given identity or ErrNotFound
func (s *Voters) Get(ctx context.Context, identity string) (models.Voter, error) {
	var v models.Voter
	err := s.db.GetContext(ctx, &v, s.db.Rebind(`
		SELECT identity, secret_hash, hash_cost, created_at
		FROM voter
		WHERE identity = ?
	`), identity)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, classify(err)
	}
	return v, nil
}

// UpdateHash replaces the stored hash for identity when the stored cost is
// below cost. It returns ErrNotFound when no row qualifies, which includes a
// concurrent upgrade that already landed.
func (s *Voters) UpdateHash(ctx context.Context, identity, hash string, cost int) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE voter SET secret_hash = ?, hash_cost = ?
		WHERE identity = ? AND hash_cost < ?
	`), hash, cost, identity, cost)
	if err != nil {
		return classify(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

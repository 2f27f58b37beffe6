// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/store"
)

// Service bundles the components that share one connection pool
type Service struct {
	Credentials   *Credentials
	Authenticator *Authenticator
	Admission     *Admission
	Tallier       *Tallier
}

// New wires the components over db. limiter may be nil.
func New(db *sqlx.DB, cfg cliparse.Config, limiter AttemptLimiter) (*Service, error) {
	voters := store.NewVoters(db)
	votes := store.NewVotes(db)

	creds, err := NewCredentials(voters, cfg.BcryptCost, cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}

	handles, err := auth.NewHandleIssuer(cfg.HandleSecret, cfg.HandleTTL)
	if err != nil {
		return nil, err
	}

	authenticator := NewAuthenticator(creds, votes, handles, limiter, cfg.QueryTimeout)

	return &Service{
		Credentials:   creds,
		Authenticator: authenticator,
		Admission:     NewAdmission(votes, authenticator, PolicyFor(cfg.Candidates), cfg.QueryTimeout),
		Tallier:       NewTallier(votes, cfg.QueryTimeout),
	}, nil
}

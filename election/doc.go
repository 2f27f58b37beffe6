// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements voter credentials, authentication, exactly-once
vote admission and the tally.

# Components

	svc, err := election.New(db, cfg, limiter)

  - Credentials: Register and Verify against the voter table
  - Authenticator: Authenticate (credentials -> voter handle + already-voted
    flag) and Resolve (handle -> identity)
  - Admission: CastVote and Status
  - Tallier: Tally

# Exactly-once Admission

CastVote issues one conditional insert keyed on the voter identity. The
database primary key picks the single winner among concurrent or retried
calls; everyone else gets ErrAlreadyVoted. The already-voted flag returned
by Authenticate is a convenience for clients and is never consulted by
CastVote.

No in-process locks are held, so any number of service instances can share
one database.

# Errors

Every error maps to a Kind via KindOf:

	ErrInvalidInput                         KindValidation
	ErrInvalidCredentials, ErrInvalidHandle KindAuthentication
	ErrIdentityExists, ErrAlreadyVoted      KindConflict
	ErrTooManyAttempts                      KindRateLimited
	ErrStorageUnavailable                   KindStorage

Storage errors are logged with their detail and replaced by
ErrStorageUnavailable before they leave the package.

# Candidate Policy

PolicyFor(nil) accepts any non-empty label. PolicyFor(list) only accepts
labels on the list.
*/
package election

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
)

// AttemptLimiter throttles logins per identity. Reserve must count the
// attempt and decide in one atomic step. Any error it returns is treated as
// a storage fault.
type AttemptLimiter interface {
	Reserve(ctx context.Context, identity string) (bool, error)
	Reset(ctx context.Context, identity string) error
}

// VoteChecker answers "has this voter voted" for the login response
type VoteChecker interface {
	Exists(ctx context.Context, voterID string) (bool, error)
}

type AuthResult struct {
	Handle    string
	ExpiresAt time.Time
	// Advisory only. Admission does its own atomic check.
	AlreadyVoted bool
}

// Authenticator verifies credentials and issues voter handles
type Authenticator struct {
	creds   *Credentials
	votes   VoteChecker
	handles *auth.HandleIssuer
	limiter AttemptLimiter
	timeout time.Duration
}

// NewAuthenticator builds an Authenticator. limiter may be nil.
func NewAuthenticator(creds *Credentials, votes VoteChecker, handles *auth.HandleIssuer, limiter AttemptLimiter, timeout time.Duration) *Authenticator {
	return &Authenticator{
		creds:   creds,
		votes:   votes,
		handles: handles,
		limiter: limiter,
		timeout: timeout,
	}
}

// Authenticate checks identity and secret. Unknown identity and wrong secret
// both return ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, identity, secret string) (AuthResult, error) {
	identity = NormalizeIdentity(identity)
	if identity == "" {
		return AuthResult{}, invalidInput("identity is required")
	}
	if secret == "" {
		return AuthResult{}, invalidInput("secret is required")
	}

	if a.limiter != nil {
		// Reserved before verifying so concurrent guesses cannot share one slot
		allowed, err := a.limiter.Reserve(ctx, identity)
		if err != nil {
			return AuthResult{}, storageFault("login limiter reserve", err, "identity", identity)
		}
		if !allowed {
			return AuthResult{}, ErrTooManyAttempts
		}
	}

	voterID, err := a.creds.Verify(ctx, identity, secret)
	if errors.Is(err, ErrVoterNotFound) || errors.Is(err, ErrSecretMismatch) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}

	if a.limiter != nil {
		if err := a.limiter.Reset(ctx, voterID); err != nil {
			// The login itself succeeded; a stale counter only delays a later lockout
			slog.Warn("failed to reset login limiter", "error", err, "identity", voterID)
		}
	}

	voted, err := a.hasVoted(ctx, voterID)
	if err != nil {
		return AuthResult{}, storageFault("vote lookup", err, "identity", voterID)
	}

	handle, expiresAt, err := a.handles.Issue(voterID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("authenticate %s: %w", voterID, err)
	}

	return AuthResult{Handle: handle, ExpiresAt: expiresAt, AlreadyVoted: voted}, nil
}

// Resolve turns a voter handle back into the identity it was issued for
func (a *Authenticator) Resolve(handle string) (string, error) {
	if handle == "" {
		return "", invalidInput("voter handle is required")
	}
	identity, err := a.handles.Parse(handle)
	if err != nil {
		return "", ErrInvalidHandle
	}
	return identity, nil
}

func (a *Authenticator) hasVoted(ctx context.Context, voterID string) (bool, error) {
	sctx, cancel := storageContext(ctx, a.timeout)
	defer cancel()
	return a.votes.Exists(sctx, voterID)
}

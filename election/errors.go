// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Errors returned to callers. Storage detail never appears in these; it is
// logged where the fault is caught.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid identity or secret")
	ErrInvalidHandle      = errors.New("invalid or expired voter handle")
	ErrIdentityExists     = errors.New("identity already registered")
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrTooManyAttempts    = errors.New("too many failed attempts, try again later")
	ErrStorageUnavailable = errors.New("storage unavailable, safe to retry")

	// Raised by a restrictive CandidatePolicy; also matches ErrInvalidInput
	ErrCandidateRejected = fmt.Errorf("%w: candidate is not on the ballot", ErrInvalidInput)
)

// Outcomes of Credentials.Verify. Authenticate folds both into
// ErrInvalidCredentials so callers cannot tell them apart.
var (
	ErrVoterNotFound  = errors.New("voter not found")
	ErrSecretMismatch = errors.New("secret mismatch")
)

// Kind groups errors by how a client should react to them
type Kind int

const (
	KindUnknown Kind = iota
	// Client must correct the request; retrying unchanged is pointless
	KindValidation
	// Credentials or handle rejected; no detail on which part was wrong
	KindAuthentication
	// Expected outcome: identity taken or vote already cast
	KindConflict
	// Login limiter tripped
	KindRateLimited
	// Connectivity or timeout; safe to retry
	KindStorage
)

// KindOf classifies an error returned by this package
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidHandle):
		return KindAuthentication
	case errors.Is(err, ErrIdentityExists), errors.Is(err, ErrAlreadyVoted):
		return KindConflict
	case errors.Is(err, ErrTooManyAttempts):
		return KindRateLimited
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorage
	default:
		return KindUnknown
	}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storageFault logs the raw error and returns the retryable sentinel
func storageFault(op string, err error, attrs ...any) error {
	slog.Error(op+" failed", append([]any{"error", err}, attrs...)...)
	return ErrStorageUnavailable
}

// storageContext bounds one storage call. A zero timeout leaves ctx as is.
func storageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

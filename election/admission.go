// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

// MaxCandidateLen bounds candidate labels in bytes
const MaxCandidateLen = 128

// VoteLedger is the write-once vote store
type VoteLedger interface {
	// Insert must be an atomic insert-if-absent keyed on VoterID,
	// returning store.ErrDuplicate when a vote already exists.
	Insert(ctx context.Context, v models.Vote) error
	Get(ctx context.Context, voterID string) (models.Vote, error)
}

// HandleResolver maps a voter handle to an identity
type HandleResolver interface {
	Resolve(handle string) (string, error)
}

// Admission records votes exactly once per voter
type Admission struct {
	votes   VoteLedger
	handles HandleResolver
	policy  CandidatePolicy
	timeout time.Duration
	now     func() time.Time
}

// NewAdmission builds an Admission. A nil policy accepts any candidate.
func NewAdmission(votes VoteLedger, handles HandleResolver, policy CandidatePolicy, timeout time.Duration) *Admission {
	if policy == nil {
		policy = AnyCandidate{}
	}
	return &Admission{
		votes:   votes,
		handles: handles,
		policy:  policy,
		timeout: timeout,
		now:     time.Now,
	}
}

// CastVote admits one vote for the voter behind handle.
//
// The ledger insert is the only has-voted check. Under any interleaving of
// calls for one voter, exactly one returns the stored vote and every other
// returns ErrAlreadyVoted. A retry after a timeout cannot create a second
// record. Storage faults return ErrStorageUnavailable and never
// ErrAlreadyVoted.
//
// The handle is resolved before the candidate policy runs, so callers
// without a valid handle learn nothing about the ballot.
func (a *Admission) CastVote(ctx context.Context, handle, candidate string) (models.Vote, error) {
	if handle == "" {
		return models.Vote{}, invalidInput("voter handle is required")
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return models.Vote{}, invalidInput("candidate is required")
	}
	if len(candidate) > MaxCandidateLen {
		return models.Vote{}, invalidInput("candidate must be at most %d bytes", MaxCandidateLen)
	}

	voterID, err := a.handles.Resolve(handle)
	if err != nil {
		return models.Vote{}, err
	}

	if err := a.policy.Allow(candidate); err != nil {
		return models.Vote{}, err
	}

	vote := models.Vote{
		VoterID:   voterID,
		Candidate: candidate,
		CastAt:    a.now().UTC().Truncate(time.Microsecond),
	}

	sctx, cancel := storageContext(ctx, a.timeout)
	defer cancel()

	err = a.votes.Insert(sctx, vote)
	switch {
	case err == nil:
		return vote, nil
	case errors.Is(err, store.ErrDuplicate):
		return models.Vote{}, ErrAlreadyVoted
	case errors.Is(err, store.ErrMissingVoter):
		// Validly signed, but no such voter in this ledger
		return models.Vote{}, ErrInvalidHandle
	default:
		return models.Vote{}, storageFault("vote insert", err, "identity", voterID)
	}
}

// Status reports whether the voter behind handle has voted and when.
// The candidate is returned to the caller but handlers must not expose it.
func (a *Admission) Status(ctx context.Context, handle string) (models.Vote, bool, error) {
	if handle == "" {
		return models.Vote{}, false, invalidInput("voter handle is required")
	}
	voterID, err := a.handles.Resolve(handle)
	if err != nil {
		return models.Vote{}, false, err
	}

	sctx, cancel := storageContext(ctx, a.timeout)
	defer cancel()

	vote, err := a.votes.Get(sctx, voterID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, storageFault("vote lookup", err, "identity", voterID)
	}
	return vote, true, nil
}

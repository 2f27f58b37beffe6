// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

// MaxIdentityLen bounds identities in bytes
const MaxIdentityLen = 128

// VoterRepository is the persistence behind Credentials
type VoterRepository interface {
	Create(ctx context.Context, v models.Voter) error
	Get(ctx context.Context, identity string) (models.Voter, error)
	UpdateHash(ctx context.Context, identity, hash string, cost int) error
}

// Credentials registers voters and verifies their secrets.
// Raw secrets are hashed immediately and never stored or logged.
type Credentials struct {
	voters  VoterRepository
	cost    int
	timeout time.Duration
	now     func() time.Time

	// Compared against when the identity is unknown so both failure paths
	// spend one bcrypt comparison.
	dummyHash string
}

func NewCredentials(voters VoterRepository, cost int, timeout time.Duration) (*Credentials, error) {
	dummy, err := auth.HashSecret("quickly-vote-dummy-secret", cost)
	if err != nil {
		return nil, err
	}
	return &Credentials{
		voters:    voters,
		cost:      cost,
		timeout:   timeout,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// NormalizeIdentity trims surrounding whitespace. Identities are otherwise
// opaque: no case folding, no numeric parsing.
func NormalizeIdentity(identity string) string {
	return strings.TrimSpace(identity)
}

// Register creates a voter record. It returns ErrIdentityExists when the
// identity is taken, including when a concurrent registration wins the race.
func (c *Credentials) Register(ctx context.Context, identity, secret string) error {
	identity = NormalizeIdentity(identity)
	if identity == "" {
		return invalidInput("identity is required")
	}
	if secret == "" {
		return invalidInput("secret is required")
	}
	if len(identity) > MaxIdentityLen {
		return invalidInput("identity must be at most %d bytes", MaxIdentityLen)
	}
	if len(secret) > auth.MaxSecretLen {
		return invalidInput("secret must be at most %d bytes", auth.MaxSecretLen)
	}

	// Fast path only; skips hashing for an identity that is plainly taken.
	// The insert below is what actually enforces uniqueness.
	if _, err := c.lookup(ctx, identity); err == nil {
		return ErrIdentityExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return storageFault("voter lookup", err, "identity", identity)
	}

	hash, err := auth.HashSecret(secret, c.cost)
	if err != nil {
		return fmt.Errorf("register %s: %w", identity, err)
	}
	// bcrypt substitutes its default for out-of-range costs; record what it used
	cost, err := auth.HashCost(hash)
	if err != nil {
		return fmt.Errorf("register %s: %w", identity, err)
	}

	sctx, cancel := storageContext(ctx, c.timeout)
	defer cancel()

	err = c.voters.Create(sctx, models.Voter{
		Identity:   identity,
		SecretHash: hash,
		HashCost:   cost,
		CreatedAt:  c.now().UTC().Truncate(time.Microsecond),
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDuplicate):
		return ErrIdentityExists
	default:
		return storageFault("voter insert", err, "identity", identity)
	}
}

// Verify checks secret against the stored hash for identity and returns the
// identity on match. Failures are ErrVoterNotFound or ErrSecretMismatch.
// A match against a hash weaker than the configured cost rehashes it.
func (c *Credentials) Verify(ctx context.Context, identity, secret string) (string, error) {
	identity = NormalizeIdentity(identity)

	voter, err := c.lookup(ctx, identity)
	if errors.Is(err, store.ErrNotFound) {
		_ = auth.CompareSecret(c.dummyHash, secret)
		return "", ErrVoterNotFound
	}
	if err != nil {
		return "", storageFault("voter lookup", err, "identity", identity)
	}

	err = auth.CompareSecret(voter.SecretHash, secret)
	if errors.Is(err, auth.ErrSecretMismatch) {
		return "", ErrSecretMismatch
	}
	if err != nil {
		// A stored hash that bcrypt cannot parse is a storage integrity fault
		return "", storageFault("secret compare", err, "identity", identity)
	}

	if voter.HashCost < c.cost {
		c.upgrade(ctx, voter.Identity, secret)
	}
	return voter.Identity, nil
}

// upgrade rehashes secret at the configured cost. Failures are logged only;
// the old hash still verifies.
func (c *Credentials) upgrade(ctx context.Context, identity, secret string) {
	hash, err := auth.HashSecret(secret, c.cost)
	if err != nil {
		slog.Warn("failed to rehash secret", "error", err, "identity", identity)
		return
	}
	cost, err := auth.HashCost(hash)
	if err != nil {
		slog.Warn("failed to rehash secret", "error", err, "identity", identity)
		return
	}

	sctx, cancel := storageContext(ctx, c.timeout)
	defer cancel()
	err = c.voters.UpdateHash(sctx, identity, hash, cost)
	switch {
	case err == nil:
		slog.Info("secret rehashed", "identity", identity, "cost", cost)
	case errors.Is(err, store.ErrNotFound):
		// Another login upgraded it first
	default:
		slog.Warn("failed to store rehashed secret", "error", err, "identity", identity)
	}
}

func (c *Credentials) lookup(ctx context.Context, identity string) (models.Voter, error) {
	sctx, cancel := storageContext(ctx, c.timeout)
	defer cancel()
	return c.voters.Get(sctx, identity)
}

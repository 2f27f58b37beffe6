// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const handleIssuer = "quickly-vote"

var ErrInvalidHandle = errors.New("invalid voter handle")

// HandleIssuer signs and verifies voter handles.
// A handle is an HS256 JWT whose subject is the voter identity.
type HandleIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewHandleIssuer(secret string, ttl time.Duration) (*HandleIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("handle secret required")
	}
	if ttl <= 0 {
		return nil, errors.New("handle ttl must be positive")
	}
	return &HandleIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a handle for identity and reports when it expires
func (h *HandleIssuer) Issue(identity string) (string, time.Time, error) {
	now := h.now()
	expiresAt := now.Add(h.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    handleIssuer,
		Subject:   identity,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign voter handle: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies a handle and returns the identity it was issued for.
// Any failure (bad signature, wrong algorithm, expiry, missing subject)
// is reported as ErrInvalidHandle.
func (h *HandleIssuer) Parse(handle string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(handleIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(h.now),
	)

	var claims jwt.RegisteredClaims
	token, err := parser.ParseWithClaims(handle, &claims, func(t *jwt.Token) (interface{}, error) {
		return h.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidHandle
	}
	return claims.Subject, nil
}

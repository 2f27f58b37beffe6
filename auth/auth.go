// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxSecretLen is the longest secret bcrypt will hash
const MaxSecretLen = 72

var (
	ErrSecretMismatch = errors.New("secret does not match")
	ErrSecretTooLong  = errors.New("secret exceeds 72 bytes")
)

// HashSecret returns a salted bcrypt hash of secret at the given cost.
// The salt and cost are encoded in the returned string.
func HashSecret(secret string, cost int) (string, error) {
	if len(secret) > MaxSecretLen {
		return "", ErrSecretTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrSecretTooLong
		}
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

// CompareSecret checks secret against a stored hash.
// bcrypt compares the derived keys in constant time.
func CompareSecret(hash, secret string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrSecretMismatch
	}
	return fmt.Errorf("failed to compare secret: %w", err)
}

// HashCost reports the cost factor a hash was created with
func HashCost(hash string) (int, error) {
	return bcrypt.Cost([]byte(hash))
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for correlating log lines
	return hex.EncodeToString(sum[:8])
}

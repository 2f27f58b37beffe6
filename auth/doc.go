// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides secret hashing and voter handle utilities.

# Secrets

Secrets are hashed with bcrypt at a configured cost (BCRYPT_COST, default 12):

	hash, err := auth.HashSecret(secret, cfg.BcryptCost)
	err = auth.CompareSecret(hash, secret) // nil or ErrSecretMismatch

The hash string carries its own salt and cost, so a hash written by one
process verifies in any later process. HashCost reads the cost back out, which
is how logins find hashes weaker than the configured cost. bcrypt only reads the first 72 bytes,
so longer secrets are refused with ErrSecretTooLong rather than silently
truncated.

# Voter Handles

A voter handle is what Authenticate returns and CastVote consumes. It is an
HS256 JWT with the identity as subject, a random ID and an expiry:

	issuer, err := auth.NewHandleIssuer(cfg.HandleSecret, cfg.HandleTTL)
	handle, expiresAt, err := issuer.Issue(identity)
	identity, err := issuer.Parse(handle)

Parse accepts only HS256 with the service issuer and a present expiry. The
handle is not secret from its holder: the identity is readable in the payload.

# IP Hashing

For log correlation without storing addresses:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth

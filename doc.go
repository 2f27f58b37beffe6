// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote registers voters with an identity and secret, authenticates
them, admits exactly one vote per voter and publishes a running tally.

# Starting the Server

	VOTER_HANDLE_SECRET=... DATABASE_URL=file:votes.db go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." -p 3318

Settings are read from flags, then the environment, then a .env file
(see -env).

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string
  - VOTER_HANDLE_SECRET (--handle-secret): at least 32 bytes, signs voter handles

Common optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BCRYPT_COST (--bcrypt-cost): hash cost factor (default: 12)
  - REDIS_URL (--redis-url): enables the failed-login limiter
  - CANDIDATES (--candidates): comma-separated ballot; empty accepts any label

# Architecture

  - election: credentials, authentication, vote admission, tally
  - store: voter and vote tables (sqlx over lib/pq or modernc sqlite)
  - limiter: Redis-backed failed-login counter
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and record types
  - auth: secret hashing and signed voter handles
  - db: connection pool and schema
  - cliparse: Configuration parsing

The server drains in-flight requests on SIGINT/SIGTERM before closing the
database pool.
*/
package main

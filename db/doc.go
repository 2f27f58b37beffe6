// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the connection pool and creates the schema.

# Connection Pool

Open returns a *sqlx.DB with the pool bounds from config applied and the
connection verified:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL, db.PoolConfigFrom(cfg), cfg.QueryTimeout)

The pool is the only state shared between requests. Each store call
acquires a connection for the duration of one statement and returns it on
success, error or context expiry. Close the pool at shutdown.

Two drivers are supported: lib/pq ("postgres") and modernc.org/sqlite
("sqlite"). sqlite DSNs get foreign_keys(1) and busy_timeout(5000) pragmas.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: identity (primary key), salted secret hash, hash cost
  - vote: voter_id (primary key and foreign key to voter), candidate, cast_at

	voter 1──0..1 vote

Rows are never deleted. Vote rows are never updated; a voter row changes only
when its hash is upgraded to a higher cost. The vote primary key is what makes
vote admission exactly-once.
*/
package db

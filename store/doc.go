// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists voters and votes.

Voters is the credential store and Votes is the vote ledger. Both are thin
sqlx wrappers over one statement per call; every call takes a context and
borrows a pooled connection only for that statement.

Writes use INSERT ... ON CONFLICT DO NOTHING and read the affected row
count, so uniqueness is decided by the database's primary key, never by a
prior read. Driver errors are classified into ErrDuplicate, ErrMissingVoter
and ErrUnavailable for both lib/pq and modernc.org/sqlite.
*/
package store

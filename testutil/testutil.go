// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
)

// TestHandleSecret signs voter handles in tests
const TestHandleSecret = "test-handle-secret-0123456789abcdef"

// SetupTestDB creates a fresh sqlite database file with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return OpenTestDB(t, filepath.Join(t.TempDir(), "votes.db"))
}

// OpenTestDB opens (or reopens) the sqlite database at path and ensures the
// schema exists. Reopening the same path simulates a process restart.
func OpenTestDB(t *testing.T, path string) *sqlx.DB {
	t.Helper()
	// sqlite admits one writer at a time; a single pooled connection keeps
	// concurrent tests from tripping SQLITE_BUSY while still racing callers.
	return openTestDB(t, path, db.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
}

// SetupPooledTestDB is SetupTestDB with maxOpen connections, so concurrent
// writers contend inside sqlite (busy_timeout) instead of in database/sql.
func SetupPooledTestDB(t *testing.T, maxOpen int) *sqlx.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "votes.db"), db.PoolConfig{MaxOpenConns: maxOpen, MaxIdleConns: maxOpen})
}

func openTestDB(t *testing.T, path string, pool db.PoolConfig) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, "sqlite", "file:"+path, pool, 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      "file:test.db",
		DatabaseType:     "sqlite",
		HandleSecret:     TestHandleSecret,
		HandleTTL:        time.Minute,
		BcryptCost:       bcrypt.MinCost,
		MaxOpenConns:     1,
		MaxIdleConns:     1,
		ConnMaxLifetime:  time.Minute,
		QueryTimeout:     5 * time.Second,
		LoginMaxAttempts: 3,
		LoginCooldown:    time.Minute,
	}
}

// CreateTestVoter inserts a voter with the given secret directly
func CreateTestVoter(t *testing.T, conn *sqlx.DB, identity, secret string) {
	t.Helper()

	hash, err := auth.HashSecret(secret, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash secret: %v", err)
	}
	_, err = conn.Exec(conn.Rebind(`
		INSERT INTO voter (identity, secret_hash, hash_cost, created_at)
		VALUES (?, ?, ?, ?)
	`), identity, hash, bcrypt.MinCost, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
}

// CastTestVote inserts a vote directly, bypassing admission
func CastTestVote(t *testing.T, conn *sqlx.DB, identity, candidate string) {
	t.Helper()

	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO vote (voter_id, candidate, cast_at)
		VALUES (?, ?, ?)
	`), identity, candidate, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// CountVotes returns the number of vote rows for identity
func CountVotes(t *testing.T, conn *sqlx.DB, identity string) int {
	t.Helper()

	var n int
	if err := conn.Get(&n, conn.Rebind(`SELECT COUNT(*) FROM vote WHERE voter_id = ?`), identity); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// BearerHeader builds the Authorization header carrying a voter handle
func BearerHeader(handle string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + handle}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorMessage decodes an error body and returns its message
func AssertErrorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	return resp.Message
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

// TestConcurrentVotesSameVoter verifies that simultaneous casts for one voter
// admit exactly one vote and answer every other request with 409
func TestConcurrentVotesSameVoter(t *testing.T) {
	h := setupHandlers(t, nil)
	handle := h.login(t, "racer", "pw")

	numAttempts := 20
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			candidate := []string{"A", "B"}[i%2]
			req := testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{Candidate: candidate}, testutil.BearerHeader(handle))
			w := httptest.NewRecorder()

			h.voting.CastVote(w, req)

			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 admitted vote, got %d", successCount.Load())
	}
	if int(conflictCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}
	if n := testutil.CountVotes(t, h.db, "racer"); n != 1 {
		t.Errorf("Expected 1 vote in database, got %d", n)
	}
}

// TestConcurrentVotesManyVoters verifies that distinct voters do not block
// or displace each other
func TestConcurrentVotesManyVoters(t *testing.T) {
	h := setupHandlers(t, nil)

	numVoters := 10
	handles := make([]string, numVoters)
	for i := range handles {
		handles[i] = h.login(t, "voter-"+string(rune('a'+i)), "pw")
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{Candidate: "A"}, testutil.BearerHeader(handles[i]))
			w := httptest.NewRecorder()

			h.voting.CastVote(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	var total int
	if err := h.db.Get(&total, "SELECT COUNT(*) FROM vote"); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if total != numVoters {
		t.Errorf("Expected %d votes in database, got %d", numVoters, total)
	}
}

// TestConcurrentRegistration verifies one identity is registered once
func TestConcurrentRegistration(t *testing.T) {
	h := setupHandlers(t, nil)

	numAttempts := 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/voters", models.RegisterRequest{Identity: "contested", Secret: "pw"}, nil)
			w := httptest.NewRecorder()

			h.voters.Register(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful registration, got %d", successCount.Load())
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func TestVotersCreateAndGet(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	voters := store.NewVoters(conn)
	ctx := context.Background()

	v := models.Voter{Identity: "39001010000", SecretHash: "$2a$04$hash", HashCost: 4, CreatedAt: now()}
	if err := voters.Create(ctx, v); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := voters.Get(ctx, "39001010000")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Identity != v.Identity || got.SecretHash != v.SecretHash || got.HashCost != v.HashCost {
		t.Errorf("Get() = %+v, want %+v", got, v)
	}
	if !got.CreatedAt.Equal(v.CreatedAt) {
		t.Errorf("CreatedAt = %s, want %s", got.CreatedAt, v.CreatedAt)
	}

	// Identity is an opaque key: leading zeros and case matter
	if _, err := voters.Get(ctx, "039001010000"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() unknown identity error = %v, want ErrNotFound", err)
	}
}

func TestVotersCreateDuplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	voters := store.NewVoters(conn)
	ctx := context.Background()

	first := models.Voter{Identity: "dup", SecretHash: "h1", HashCost: 4, CreatedAt: now()}
	second := models.Voter{Identity: "dup", SecretHash: "h2", HashCost: 4, CreatedAt: now()}

	if err := voters.Create(ctx, first); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if err := voters.Create(ctx, second); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("second Create() error = %v, want ErrDuplicate", err)
	}

	// The original record is untouched
	got, err := voters.Get(ctx, "dup")
	if err != nil {
		t.Fatal(err)
	}
	if got.SecretHash != "h1" {
		t.Errorf("secret hash was overwritten: %q", got.SecretHash)
	}
}

func TestVotersUpdateHash(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	voters := store.NewVoters(conn)
	ctx := context.Background()

	if err := voters.Create(ctx, models.Voter{Identity: "alice", SecretHash: "h4", HashCost: 4, CreatedAt: now()}); err != nil {
		t.Fatal(err)
	}

	if err := voters.UpdateHash(ctx, "alice", "h6", 6); err != nil {
		t.Fatalf("UpdateHash() error = %v", err)
	}
	got, err := voters.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.SecretHash != "h6" || got.HashCost != 6 {
		t.Errorf("after upgrade got %q cost %d", got.SecretHash, got.HashCost)
	}

	// Never to an equal or weaker cost, never for unknown identities
	for _, tc := range []struct {
		identity string
		cost     int
	}{{"alice", 6}, {"alice", 5}, {"nobody", 10}} {
		if err := voters.UpdateHash(ctx, tc.identity, "x", tc.cost); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("UpdateHash(%s, %d) error = %v, want ErrNotFound", tc.identity, tc.cost, err)
		}
	}
	if got, _ := voters.Get(ctx, "alice"); got.SecretHash != "h6" {
		t.Errorf("hash overwritten by a weaker update: %q", got.SecretHash)
	}
}

func TestVotesInsert(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	votes := store.NewVotes(conn)
	ctx := context.Background()

	testutil.CreateTestVoter(t, conn, "alice", "pw")

	tests := []struct {
		name    string
		vote    models.Vote
		wantErr error
	}{
		{
			name:    "first vote admitted",
			vote:    models.Vote{VoterID: "alice", Candidate: "A", CastAt: now()},
			wantErr: nil,
		},
		{
			name:    "second vote rejected",
			vote:    models.Vote{VoterID: "alice", Candidate: "B", CastAt: now()},
			wantErr: store.ErrDuplicate,
		},
		{
			name:    "unknown voter rejected by foreign key",
			vote:    models.Vote{VoterID: "mallory", Candidate: "A", CastAt: now()},
			wantErr: store.ErrMissingVoter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := votes.Insert(ctx, tt.vote)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Insert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, err := votes.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.Candidate != "A" {
		t.Errorf("stored candidate = %q, want A (first write wins)", got.Candidate)
	}
	if n := testutil.CountVotes(t, conn, "mallory"); n != 0 {
		t.Errorf("expected no vote for unknown voter, found %d", n)
	}
}

func TestVotesInsertConcurrent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	votes := store.NewVotes(conn)
	testutil.CreateTestVoter(t, conn, "racer", "pw")

	const attempts = 20
	var admitted, duplicates atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := string(rune('A' + i%3))
			err := votes.Insert(context.Background(), models.Vote{VoterID: "racer", Candidate: candidate, CastAt: now()})
			switch {
			case err == nil:
				admitted.Add(1)
			case errors.Is(err, store.ErrDuplicate):
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if admitted.Load() != 1 {
		t.Errorf("expected exactly 1 admitted vote, got %d", admitted.Load())
	}
	if duplicates.Load() != attempts-1 {
		t.Errorf("expected %d duplicates, got %d", attempts-1, duplicates.Load())
	}
	if n := testutil.CountVotes(t, conn, "racer"); n != 1 {
		t.Errorf("expected 1 vote row, got %d", n)
	}
}

func TestVotesExistsAndGet(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	votes := store.NewVotes(conn)
	ctx := context.Background()

	testutil.CreateTestVoter(t, conn, "bob", "pw")

	exists, err := votes.Exists(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("Exists() = true before voting")
	}
	if _, err := votes.Get(ctx, "bob"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}

	castAt := now()
	if err := votes.Insert(ctx, models.Vote{VoterID: "bob", Candidate: "C", CastAt: castAt}); err != nil {
		t.Fatal(err)
	}

	exists, err = votes.Exists(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("Exists() = false after voting")
	}

	got, err := votes.Get(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if !got.CastAt.Equal(castAt) {
		t.Errorf("CastAt = %s, want %s", got.CastAt, castAt)
	}
}

func TestVotesCountByCandidate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	votes := store.NewVotes(conn)

	empty, err := votes.CountByCandidate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}

	for i, c := range []string{"A", "A", "B", "C", "A"} {
		id := "voter-" + string(rune('0'+i))
		testutil.CreateTestVoter(t, conn, id, "pw")
		testutil.CastTestVote(t, conn, id, c)
	}

	entries, err := votes.CountByCandidate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Candidate < entries[j].Candidate })

	want := []models.TallyEntry{{Candidate: "A", Votes: 3}, {Candidate: "B", Votes: 1}, {Candidate: "C", Votes: 1}}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestStorageFailureIsUnavailable(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	voters := store.NewVoters(conn)
	votes := store.NewVotes(conn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := voters.Get(ctx, "anyone"); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Get() with cancelled context error = %v, want ErrUnavailable", err)
	}

	conn.Close()
	err := votes.Insert(context.Background(), models.Vote{VoterID: "x", Candidate: "A", CastAt: now()})
	if !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Insert() on closed pool error = %v, want ErrUnavailable", err)
	}
	if errors.Is(err, store.ErrDuplicate) {
		t.Error("storage failure must not look like a duplicate")
	}
}

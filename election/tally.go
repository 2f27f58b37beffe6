// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"sort"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

// TallySource groups committed votes by candidate
type TallySource interface {
	CountByCandidate(ctx context.Context) ([]models.TallyEntry, error)
}

// Tallier computes the current result. It only reads.
type Tallier struct {
	votes   TallySource
	timeout time.Duration
}

func NewTallier(votes TallySource, timeout time.Duration) *Tallier {
	return &Tallier{votes: votes, timeout: timeout}
}

// Tally returns per-candidate counts ordered by count descending, then by
// label ascending in byte order. It reflects every vote committed before the
// read started.
func (t *Tallier) Tally(ctx context.Context) ([]models.TallyEntry, error) {
	sctx, cancel := storageContext(ctx, t.timeout)
	defer cancel()

	entries, err := t.votes.CountByCandidate(sctx)
	if err != nil {
		return nil, storageFault("tally", err)
	}

	SortTally(entries)
	return entries, nil
}

// SortTally orders entries in place: count descending, label ascending.
// Labels compare as bytes so the order does not depend on database collation.
func SortTally(entries []models.TallyEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Votes == entries[j].Votes {
			return entries[i].Candidate < entries[j].Candidate
		}
		return entries[i].Votes > entries[j].Votes
	})
}

// TotalVotes sums the counts in a tally
func TotalVotes(entries []models.TallyEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Votes
	}
	return total
}

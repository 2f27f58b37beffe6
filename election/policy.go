// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "fmt"

// CandidatePolicy decides whether a candidate label may receive votes.
// Labels reach it already trimmed and non-empty.
type CandidatePolicy interface {
	Allow(candidate string) error
}

// AnyCandidate accepts every label
type AnyCandidate struct{}

func (AnyCandidate) Allow(string) error { return nil }

// CandidateSet accepts only labels on a fixed list (exact, case-sensitive)
type CandidateSet struct {
	labels map[string]struct{}
}

func NewCandidateSet(labels []string) *CandidateSet {
	set := &CandidateSet{labels: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		set.labels[l] = struct{}{}
	}
	return set
}

func (s *CandidateSet) Allow(candidate string) error {
	if _, ok := s.labels[candidate]; !ok {
		return fmt.Errorf("%w: %q", ErrCandidateRejected, candidate)
	}
	return nil
}

// PolicyFor returns AnyCandidate for an empty list, else a CandidateSet
func PolicyFor(labels []string) CandidatePolicy {
	if len(labels) == 0 {
		return AnyCandidate{}
	}
	return NewCandidateSet(labels)
}

package models

import "time"

// Request types

type RegisterRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type AuthenticateRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type CastVoteRequest struct {
	Candidate string `json:"candidate"`
}

// Response types

type RegisterResponse struct {
	Identity string `json:"identity"`
	Message  string `json:"message"`
}

type AuthenticateResponse struct {
	VoterHandle  string    `json:"voter_handle"`
	AlreadyVoted bool      `json:"already_voted"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type CastVoteResponse struct {
	Message string    `json:"message"`
	CastAt  time.Time `json:"cast_at"`
}

// Never includes the candidate
type VoteStatusResponse struct {
	Voted  bool       `json:"voted"`
	CastAt *time.Time `json:"cast_at,omitempty"`
}

type TallyResponse struct {
	Results    []TallyEntry `json:"results"`
	TotalVotes int64        `json:"total_votes"`
}

// Domain types

type Voter struct {
	Identity   string    `db:"identity" json:"identity"`
	SecretHash string    `db:"secret_hash" json:"-"` // Never expose in JSON
	HashCost   int       `db:"hash_cost" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Vote struct {
	VoterID   string    `db:"voter_id" json:"-"` // Never expose in JSON
	Candidate string    `db:"candidate" json:"candidate"`
	CastAt    time.Time `db:"cast_at" json:"cast_at"`
}

type TallyEntry struct {
	Candidate string `db:"candidate" json:"candidate"`
	Votes     int64  `db:"votes" json:"votes"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

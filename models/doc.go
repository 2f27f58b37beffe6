// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - RegisterRequest: identity, secret
  - AuthenticateRequest: identity, secret
  - CastVoteRequest: candidate

# Response Types

  - RegisterResponse: identity, message
  - AuthenticateResponse: voter_handle, already_voted, expires_at
  - CastVoteResponse: message, cast_at
  - VoteStatusResponse: voted, cast_at
  - TallyResponse: results, total_votes
  - ErrorResponse: error, message

# Domain Types

  - Voter: one row per eligible voter; identity is an opaque string key
  - Vote: at most one per voter, keyed by voter_id
  - TallyEntry: derived candidate/count pair, never stored

Secret hashes and voter identities on votes are tagged json:"-" so they
cannot leak through a response by accident.
*/
package models

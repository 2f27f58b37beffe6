// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

  - VoterHandler: registration and authentication
  - VotingHandler: vote casting and vote status
  - ResultsHandler: the tally

Handlers are created from an election.Service:

	voterHandler := handlers.NewVoterHandler(svc, cfg)

# Error Mapping

Every election error is mapped by kind:

	validation      400
	authentication  401  (one message for unknown identity and wrong secret)
	conflict        409  (identity exists, already voted)
	rate limited    429
	storage         500  (safe to retry)

# Privacy

Secrets are never logged or echoed. Client IPs are logged only as a salted
hash. The candidate of an admitted vote is never logged next to the voter,
and GET /votes/me reports only whether and when the voter voted.
*/
package handlers

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

	mux := router.NewRouter(svc, db, cfg)

# Endpoints

	GET  /health    - 200 when the database answers, else 503
	POST /voters    - Register identity and secret
	POST /auth      - Exchange credentials for a voter handle
	POST /votes     - Cast the single vote (handle required)
	GET  /votes/me  - Whether the handle's voter has voted (handle required)
	GET  /tally     - Vote counts per candidate

The handle goes in "Authorization: Bearer <handle>" or X-Voter-Handle.
*/
package router

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("POST /votes", middleware.WithLogging(handler))

Logs request start and completion with a request id, status and
duration_ms. The id comes from X-Request-ID when the client sends one and is
echoed back in the response.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Bodies larger than MaxBodyBytes fail to parse.

# Voter Handles

	handle := middleware.VoterHandle(r)

Reads "Authorization: Bearer <handle>", falling back to X-Voter-Handle.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Only ever logged as a salted hash.
*/
package middleware

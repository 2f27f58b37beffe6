// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
)

// writeError maps an election error to a status and a client-safe message.
// Validation messages are passed through since they only echo the request.
func writeError(w http.ResponseWriter, err error) {
	switch election.KindOf(err) {
	case election.KindValidation:
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case election.KindAuthentication:
		middleware.ErrorResponse(w, http.StatusUnauthorized, authMessage(err))
	case election.KindConflict:
		middleware.ErrorResponse(w, http.StatusConflict, conflictMessage(err))
	case election.KindRateLimited:
		middleware.ErrorResponse(w, http.StatusTooManyRequests, election.ErrTooManyAttempts.Error())
	case election.KindStorage:
		middleware.ErrorResponse(w, http.StatusInternalServerError, election.ErrStorageUnavailable.Error())
	default:
		slog.Error("unclassified error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

func authMessage(err error) string {
	if errors.Is(err, election.ErrInvalidHandle) {
		return election.ErrInvalidHandle.Error()
	}
	return election.ErrInvalidCredentials.Error()
}

func conflictMessage(err error) string {
	if errors.Is(err, election.ErrAlreadyVoted) {
		return election.ErrAlreadyVoted.Error()
	}
	return election.ErrIdentityExists.Error()
}

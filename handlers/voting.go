// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type VotingHandler struct {
	admission *election.Admission
}

func NewVotingHandler(svc *election.Service) *VotingHandler {
	return &VotingHandler{admission: svc.Admission}
}

// CastVote handles POST /votes
// The voter handle comes from Authorization: Bearer or X-Voter-Handle.
// A missing handle is a missing field (400), a bad one is 401.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	handle := middleware.VoterHandle(r)

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vote, err := h.admission.CastVote(r.Context(), handle, req.Candidate)
	if err != nil {
		writeError(w, err)
		return
	}

	// Candidate stays out of the log; it would pair a voter with a choice
	slog.Info("vote cast", "voter", vote.VoterID, "cast_at", vote.CastAt)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Message: "Vote recorded",
		CastAt:  vote.CastAt,
	})
}

// VoteStatus handles GET /votes/me
func (h *VotingHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	handle := middleware.VoterHandle(r)
	vote, voted, err := h.admission.Status(r.Context(), handle)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := models.VoteStatusResponse{Voted: voted}
	if voted {
		resp.CastAt = &vote.CastAt
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

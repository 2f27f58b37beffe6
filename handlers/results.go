// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type ResultsHandler struct {
	tallier *election.Tallier
}

func NewResultsHandler(svc *election.Service) *ResultsHandler {
	return &ResultsHandler{tallier: svc.Tallier}
}

// Tally handles GET /tally
// Results are ordered by votes descending, then candidate label ascending
func (h *ResultsHandler) Tally(w http.ResponseWriter, r *http.Request) {
	entries, err := h.tallier.Tally(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	total := election.TotalVotes(entries)
	slog.Debug("tally served", "candidates", len(entries), "total_votes", humanize.Comma(total))

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		Results:    entries,
		TotalVotes: total,
	})
}

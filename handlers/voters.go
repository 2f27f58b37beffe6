// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type VoterHandler struct {
	creds *election.Credentials
	authn *election.Authenticator
	cfg   cliparse.Config
}

func NewVoterHandler(svc *election.Service, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{creds: svc.Credentials, authn: svc.Authenticator, cfg: cfg}
}

// Register handles POST /voters
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.creds.Register(r.Context(), req.Identity, req.Secret); err != nil {
		writeError(w, err)
		return
	}

	identity := election.NormalizeIdentity(req.Identity)
	slog.Info("voter registered", "identity", identity, "ip_hash", h.ipHash(r))

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Identity: identity,
		Message:  "Voter registered",
	})
}

// Authenticate handles POST /auth
func (h *VoterHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req models.AuthenticateRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.authn.Authenticate(r.Context(), req.Identity, req.Secret)
	if err != nil {
		if election.KindOf(err) == election.KindAuthentication || election.KindOf(err) == election.KindRateLimited {
			slog.Warn("authentication rejected", "ip_hash", h.ipHash(r), "error", err)
		}
		writeError(w, err)
		return
	}

	slog.Info("voter authenticated", "already_voted", res.AlreadyVoted, "ip_hash", h.ipHash(r))

	middleware.JSONResponse(w, http.StatusOK, models.AuthenticateResponse{
		VoterHandle:  res.Handle,
		AlreadyVoted: res.AlreadyVoted,
		ExpiresAt:    res.ExpiresAt,
	})
}

func (h *VoterHandler) ipHash(r *http.Request) string {
	return auth.HashIP(middleware.GetClientIP(r), h.cfg.HandleSecret)
}

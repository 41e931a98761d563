package handlers

import (
	"net/http"

	"ecomstore/internal/services"

	"github.com/rs/zerolog"
)

type SessionHandler struct {
	auth   *services.AuthStore
	logger zerolog.Logger
}

func NewSessionHandler(auth *services.AuthStore, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{auth: auth, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.auth.Snapshot())
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := h.auth.Login(r.Context(), req.Email, req.Password)
	if !res.Success {
		respondWithError(w, http.StatusUnauthorized, "authentication_failed", res.Error)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Email and password are required")
		return
	}
	res := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if !res.Success {
		respondWithError(w, http.StatusBadRequest, "registration_failed", res.Error)
		return
	}
	respondWithJSON(w, http.StatusCreated, res)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	respondWithJSON(w, http.StatusOK, h.auth.Snapshot())
}

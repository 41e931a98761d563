package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ecomstore/internal/models"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	user, ok := s.store.Authenticate(req.Email, req.Password)
	if !ok {
		respond(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	s.respondWithTokens(w, http.StatusOK, "Login successful", user)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, err := s.store.CreateUser(req.Name, req.Email, req.Password, req.Role)
	if errors.Is(err, errDuplicate) {
		respond(w, http.StatusBadRequest, "Email already registered", nil)
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		respond(w, http.StatusInternalServerError, "Registration failed", nil)
		return
	}
	s.respondWithTokens(w, http.StatusCreated, "Registration successful", user)
}

func (s *Server) respondWithTokens(w http.ResponseWriter, code int, message string, user models.User) {
	access, refresh, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to sign token")
		respond(w, http.StatusInternalServerError, "Token generation failed", nil)
		return
	}
	respond(w, code, message, models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
	})
}

func (s *Server) allUsers(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Users fetched", s.store.Users())
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid user id", nil)
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		respond(w, http.StatusNotFound, "User not found", nil)
		return
	}
	respond(w, http.StatusOK, "User deleted", nil)
}

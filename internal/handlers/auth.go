package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JPGarCar/tridu-server/internal/auth"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a bearer token for the authenticated user
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// handleLogin exchanges credentials for a bearer token
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, BadRequest("username and password are required"))
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, expires, err := h.Auth.Issue(user.ID, user.Username, user.IsStaff)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	respondOK(w, LoginResponse{Token: token, ExpiresAt: expires, User: user})
}

// handleMe returns the authenticated user
func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, ErrUnauthorized)
		return
	}
	user, err := h.Users.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, user)
}

// handleRegister creates a user account. Staff only.
func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg services.Registration
	if err := decodeJSON(r, &reg); err != nil {
		respondError(w, err)
		return
	}
	user, err := h.Users.Register(r.Context(), reg)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, user)
}

func (h *Handlers) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, users)
}

func (h *Handlers) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	user, err := h.Users.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, user)
}

func (h *Handlers) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, user)
}

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carepulse/booking-platform/internal/session"
	"github.com/carepulse/booking-platform/internal/users"
	"github.com/carepulse/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

// SignUp handles POST /auth/signup requests
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrWeakPassword),
			errors.Is(err, users.ErrMissingName),
			errors.Is(err, users.ErrInvalidEmail):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, users.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("sign-up failed", "error", err)
			http.Error(w, "sign-up failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

// SignIn handles POST /auth/signin requests
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.Error("sign-in failed", "error", err)
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// SignOut handles POST /auth/signout requests
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := session.TokenIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	if err := h.service.SignOut(r.Context(), tokenID); err != nil {
		h.logger.Error("sign-out failed", "error", err, "token_id", tokenID)
		http.Error(w, "sign-out failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me requests
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to resolve current user", "error", err, "user_id", userID)
		http.Error(w, "failed to resolve current user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

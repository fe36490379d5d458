package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/taskloop/service-task-go/internal/user/entity"
	userrepo "github.com/taskloop/service-task-go/internal/user/repo"
)

// Handler exposes HTTP endpoints for user operations (signup / login).
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, secret []byte, logger *zap.SugaredLogger) *Handler {
	svc := NewUserService(userrepo.NewUserRepo(db), nil, secret)
	return &Handler{svc: svc, logger: logger}
}

// NewHandlerWithService wires a Handler over an existing service. Used by
// tests to substitute fake repositories.
func NewHandlerWithService(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SignupRequest request body for the signup endpoint.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse response body containing the new user summary.
type SignupResponse struct {
	User entity.Summary `json:"user"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	u, err := h.svc.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User already exists"})
		case errors.Is(err, ErrValidation):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			h.logger.Warnw("signup failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Signup failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, SignupResponse{User: u.Summary()})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the user summary.
type LoginResponse struct {
	Token string         `json:"token"`
	User  entity.Summary `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// map common errors to status codes; the password itself is never logged
		switch {
		case errors.Is(err, ErrUserNotFound):
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		case errors.Is(err, ErrInvalidCredentials):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
		default:
			h.logger.Warnw("login failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Login failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: u.Summary()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

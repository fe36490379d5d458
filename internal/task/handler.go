package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/taskloop/service-task-go/internal/auth"
	taskrepo "github.com/taskloop/service-task-go/internal/task/repo"
)

// Handler exposes HTTP endpoints for task CRUD. All routes sit behind the
// auth middleware, so the caller id is always present in the context.
type Handler struct {
	svc    *TaskService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	svc := NewTaskService(taskrepo.NewTaskRepo(db))
	return &Handler{svc: svc, logger: logger}
}

// NewHandlerWithService wires a Handler over an existing service. Used by
// tests to substitute fake repositories.
func NewHandlerWithService(svc *TaskService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CreateRequest request body for task creation. Unknown fields are
// discarded by decoding into this explicit struct.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateRequest request body for task update; absent fields leave the
// stored values untouched.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		return
	}
	tasks, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.logger.Warnw("list tasks failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch tasks"})
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid create payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	t, err := h.svc.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Warnw("create task failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create task"})
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid update payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	t, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Warnw("update task failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update task"})
		return
	}
	// t is nil when the id is absent or owned by another user; the JSON
	// body is then the literal null, matching the historical contract.
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		return
	}
	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		h.logger.Warnw("delete task failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete task"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

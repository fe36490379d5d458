package task

import (
	"context"
	"errors"
	"strings"

	"github.com/taskloop/service-task-go/internal/task/entity"
	"github.com/taskloop/service-task-go/pkg/utilities"
)

// sentinel errors for common failure modes
var (
	ErrTitleRequired = errors.New("title is required")
)

// Repository is the persistence surface the service needs. *repo.TaskRepo
// satisfies it; tests substitute an in-memory fake.
type Repository interface {
	ListByOwner(ctx context.Context, userID string) ([]entity.Task, error)
	Create(ctx context.Context, t *entity.Task) (*entity.Task, error)
	Update(ctx context.Context, userID, id string, title, description *string) (*entity.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

// TaskService performs CRUD on tasks scoped to the authenticated caller.
// Ownership is enforced by pushing the caller id into every repository
// query; the service never loads a task without it.
type TaskService struct {
	repo Repository
}

func NewTaskService(repo Repository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns all tasks owned by the caller, newest first. An owner with
// no tasks gets an empty slice, never nil.
func (s *TaskService) List(ctx context.Context, userID string) ([]entity.Task, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// Create persists a new task owned by the caller. Title is required and
// must be non-empty; the store layer does not enforce this, so the service
// must.
func (s *TaskService) Create(ctx context.Context, userID, title, description string) (*entity.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	t := &entity.Task{
		ID:          utilities.NewKSUID(),
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	return s.repo.Create(ctx, t)
}

// Update changes title and/or description of the caller's task. Nil fields
// are left untouched. A missing or non-owned id yields (nil, nil): the
// silent no-op keeps non-owner probing indistinguishable from a missing
// task. A provided title must be non-empty, same rule as Create.
func (s *TaskService) Update(ctx context.Context, userID, id string, title, description *string) (*entity.Task, error) {
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, ErrTitleRequired
	}
	return s.repo.Update(ctx, userID, id, title, description)
}

// Delete removes the caller's task. Deleting an id that does not exist or
// belongs to someone else succeeds with nothing deleted, keeping the
// operation idempotent.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

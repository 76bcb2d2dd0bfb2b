package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"todolist/internal/model"
	"todolist/internal/repository"
)

const dueDateLayout = "2006-01-02"

var (
	ErrInvalidDueDate  = errors.New("invalid due date format")
	ErrPastDueDate     = errors.New("due date is in the past")
	ErrInvalidPriority = errors.New("priority out of range")
)

// TaskRepository is the store surface the service depends on.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Find(ctx context.Context, filter repository.TaskFilter, order string) ([]model.Task, error)
	FindAll(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateTaskInput carries the fields of a partial update. A nil field was
// not supplied and leaves the task untouched. Completed being a pointer is
// what lets an explicit false override be told apart from "not supplied".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *string // yyyy-MM-dd
	Priority    *int
	Completed   *bool
}

// TaskService translates domain intents into store operations. It holds no
// state of its own.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns the tasks matching filter, most recently updated first.
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.repo.Find(ctx, filter, "updated_at DESC")
}

// ListAll returns every task, unfiltered and unordered.
func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.repo.FindAll(ctx)
}

// Create persists a new task and returns it with its store-assigned id and
// timestamps. Input validation happens upstream, at the HTTP boundary.
func (s *TaskService) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetByID returns the task, or nil without error when the id is unknown.
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// Update applies a partial update to an existing task. It returns
// repository.ErrTaskNotFound for an unknown id, ErrInvalidDueDate /
// ErrPastDueDate / ErrInvalidPriority when a supplied field fails
// validation. Validation runs before any field is mutated, so a rejected
// request leaves the stored task unchanged.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, repository.ErrTaskNotFound
	}

	var dueDate *time.Time
	if in.DueDate != nil && *in.DueDate != "" {
		day, err := time.ParseInLocation(dueDateLayout, *in.DueDate, time.Local)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		// The submitted date carries no time-of-day; glue on the current one.
		now := time.Now()
		due := time.Date(day.Year(), day.Month(), day.Day(),
			now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.Local)
		if due.Before(now) {
			return nil, ErrPastDueDate
		}
		dueDate = &due
	}
	if in.Priority != nil && (*in.Priority < 1 || *in.Priority > 5) {
		return nil, ErrInvalidPriority
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		task.Title = *in.Title
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		task.Description = *in.Description
	}
	if dueDate != nil {
		task.DueDate = dueDate
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Save persists a full task record, refreshing updated_at. The reconciler
// uses it to write back auto-completions.
func (s *TaskService) Save(ctx context.Context, task *model.Task) error {
	return s.repo.Save(ctx, task)
}

// Delete removes the task by id. Deleting an unknown id is a no-op.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"todolist/internal/model"
	"todolist/internal/repository"
	"todolist/internal/service"
)

const dueDateLayout = "2006-01-02"

// TaskService is the service surface the handler depends on.
type TaskService interface {
	List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskHandler struct {
	svc TaskService
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// CreateTaskRequest is the body of POST /api/todos. Binding rejects a
// missing field, a malformed date, or a priority outside [1,5].
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	DueDate     string `json:"due_date" binding:"required,datetime=2006-01-02"`
	Priority    *int   `json:"priority" binding:"required,min=1,max=5"`
}

// UpdateTaskRequest is the body of PUT /api/todos/:id. Every field is
// optional; a field left out of the JSON stays nil and is not applied.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *int    `json:"priority"`
	Completed   *bool   `json:"completed"`
}

// TaskResponse carries one task in a response body.
type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
	Completed   bool    `json:"completed"`
	Priority    int     `json:"priority"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.DueDate != nil {
		dueDate := task.DueDate.Format(time.RFC3339)
		resp.DueDate = &dueDate
	}
	return resp
}

// List handles GET /api/todos with optional priority and completed filters.
func (h *TaskHandler) List(c *gin.Context) {
	var filter repository.TaskFilter

	if raw := c.Query("priority"); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "Invalid priority filter",
			})
			return
		}
		filter.Priority = &priority
	}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "Invalid completed filter",
			})
			return
		}
		filter.Completed = &completed
	}

	tasks, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    "Failed to retrieve tasks",
		})
		return
	}

	data := make([]TaskResponse, len(tasks))
	for i := range tasks {
		data[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, APIResponse{
		StatusCode: http.StatusOK,
		Message:    "Tasks retrieved successfully",
		Data:       data,
	})
}

// Create handles POST /api/todos.
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, validationFailure(err))
		return
	}

	// Format is already guaranteed by the binding tag.
	day, _ := time.ParseInLocation(dueDateLayout, req.DueDate, time.Local)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		c.JSON(http.StatusBadRequest, APIResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "Due date must be in the future or present",
		})
		return
	}

	// The submitted date carries no time-of-day; glue on the current one.
	dueDate := time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.Local)

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     &dueDate,
		Priority:    *req.Priority,
	}

	created, err := h.svc.Create(c.Request.Context(), task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    "Failed to create task",
		})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		StatusCode: http.StatusCreated,
		Message:    "Task created successfully",
		Data:       toTaskResponse(created),
	})
}

// Update handles PUT /api/todos/:id with a partial body.
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid task ID format",
		})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request",
		})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Completed:   req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, APIResponse{
				StatusCode: http.StatusNotFound,
				Message:    "Task not found",
			})
		case errors.Is(err, service.ErrInvalidDueDate):
			c.JSON(http.StatusBadRequest, APIResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "Invalid due date format, expected yyyy-MM-dd",
			})
		case errors.Is(err, service.ErrPastDueDate):
			c.JSON(http.StatusBadRequest, APIResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "Due date must be in the future or present",
			})
		case errors.Is(err, service.ErrInvalidPriority):
			c.JSON(http.StatusBadRequest, APIResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "Priority must be between 1 and 5",
			})
		default:
			c.JSON(http.StatusInternalServerError, APIResponse{
				StatusCode: http.StatusInternalServerError,
				Message:    "Failed to update task",
			})
		}
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		StatusCode: http.StatusOK,
		Message:    "Task updated successfully",
		Data:       toTaskResponse(updated),
	})
}

// Delete handles DELETE /api/todos/:id. Deletion is idempotent: an unknown
// or malformed id still answers 204.
func (h *TaskHandler) Delete(c *gin.Context) {
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		if err := h.svc.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, APIResponse{
				StatusCode: http.StatusInternalServerError,
				Message:    "Failed to delete task",
			})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// validationFailure turns a binding error into the envelope carrying one
// message per failed field.
func validationFailure(err error) APIResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return APIResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request",
		}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return APIResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed for one or more fields",
		Data:       messages,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		return "Title is mandatory"
	case "Description":
		return "Description is mandatory"
	case "DueDate":
		if fe.Tag() == "required" {
			return "Due date is mandatory"
		}
		return "Due date must be in the format YYYY-MM-DD"
	case "Priority":
		switch fe.Tag() {
		case "min":
			return "Priority must be at least 1"
		case "max":
			return "Priority must be at most 5"
		}
		return "Priority is mandatory"
	}
	return fe.Field() + " is invalid"
}

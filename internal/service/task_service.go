package service

import (
	"tasker-be/internal/apperrors"
	"tasker-be/internal/entities"
	"tasker-be/internal/models"
	"tasker-be/internal/repository"
)

// Task fields a client is allowed to change
var updatableTaskFields = map[string]bool{
	"description": true,
	"completed":   true,
}

// TaskService defines the interface for task business logic. Every operation
// takes the requesting owner; ownership is enforced by the repository query,
// never as a post-check.
type TaskService interface {
	CreateTask(owner string, req *models.CreateTaskRequest) (*entities.Task, error)
	ListTasks(owner string, query *models.ListTasksQuery) ([]*entities.Task, error)
	GetTask(owner, id string) (*entities.Task, error)
	UpdateTask(owner, id string, fields map[string]interface{}) (*entities.Task, error)
	DeleteTask(owner, id string) (*entities.Task, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// CreateTask creates a task owned by the requester
func (s *taskService) CreateTask(owner string, req *models.CreateTaskRequest) (*entities.Task, error) {
	description, err := normalizeDescription(req.Description)
	if err != nil {
		return nil, err
	}
	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}
	return s.taskRepo.Create(owner, description, completed)
}

// ListTasks returns the owner's tasks with the requested filter, paging
// and sort order
func (s *taskService) ListTasks(owner string, query *models.ListTasksQuery) ([]*entities.Task, error) {
	if query.Limit < 0 {
		return nil, apperrors.NewValidationError("limit", "must not be negative")
	}
	if query.Skip < 0 {
		return nil, apperrors.NewValidationError("skip", "must not be negative")
	}
	return s.taskRepo.ListByOwner(owner, query)
}

// GetTask fetches a single task if the requester owns it
func (s *taskService) GetTask(owner, id string) (*entities.Task, error) {
	return s.taskRepo.GetByID(id, owner)
}

// UpdateTask applies an allow-listed set of field changes. An unknown field
// rejects the whole request before anything is written.
func (s *taskService) UpdateTask(owner, id string, fields map[string]interface{}) (*entities.Task, error) {
	for field := range fields {
		if !updatableTaskFields[field] {
			return nil, apperrors.NewValidationError(field, "is not an updatable field")
		}
	}

	var description *string
	var completed *bool

	if raw, ok := fields["description"]; ok {
		value, ok := raw.(string)
		if !ok {
			return nil, apperrors.NewValidationError("description", "must be a string")
		}
		normalized, err := normalizeDescription(value)
		if err != nil {
			return nil, err
		}
		description = &normalized
	}
	if raw, ok := fields["completed"]; ok {
		value, ok := raw.(bool)
		if !ok {
			return nil, apperrors.NewValidationError("completed", "must be a boolean")
		}
		completed = &value
	}

	return s.taskRepo.Update(id, owner, description, completed)
}

// DeleteTask removes a single task if the requester owns it
func (s *taskService) DeleteTask(owner, id string) (*entities.Task, error) {
	return s.taskRepo.Delete(id, owner)
}

package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"tasker-be/internal/apperrors"
	"tasker-be/internal/entities"
	"tasker-be/internal/models"
)

const taskColumns = "id, description, completed, owner, created_at, updated_at"

// Columns the list endpoint may sort by, keyed by their API names
var taskSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// TaskRepository defines the interface for task database operations
type TaskRepository interface {
	Create(owner, description string, completed bool) (*entities.Task, error)
	ListByOwner(owner string, query *models.ListTasksQuery) ([]*entities.Task, error)
	GetByID(id, owner string) (*entities.Task, error)
	Update(id, owner string, description *string, completed *bool) (*entities.Task, error)
	Delete(id, owner string) (*entities.Task, error)
	DeleteAllByOwner(owner string) error
}

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func scanTask(row *sql.Row) (*entities.Task, error) {
	var task entities.Task
	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Completed,
		&task.Owner,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return &task, nil
}

// Create inserts a new task into the database
func (r *taskRepository) Create(owner, description string, completed bool) (*entities.Task, error) {
	query := `
		INSERT INTO tasks (owner, description, completed)
		VALUES ($1, $2, $3)
		RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRow(query, owner, description, completed))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListByOwner returns the owner's tasks with optional completion filter,
// paging and sorting
func (r *taskRepository) ListByOwner(owner string, q *models.ListTasksQuery) ([]*entities.Task, error) {
	clauses := []string{"owner = $1"}
	args := []interface{}{owner}

	if q.Completed != nil {
		args = append(args, *q.Completed)
		clauses = append(clauses, fmt.Sprintf("completed = $%d", len(args)))
	}

	orderBy := "created_at"
	if q.SortBy != "" {
		column, ok := taskSortColumns[q.SortBy]
		if !ok {
			return nil, apperrors.NewValidationError("sortBy", "unknown sort field")
		}
		orderBy = column
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	sqlQuery := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE %s ORDER BY %s %s",
		taskColumns, strings.Join(clauses, " AND "), orderBy, direction,
	)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sqlQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		sqlQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*entities.Task{}
	for rows.Next() {
		var task entities.Task
		err := rows.Scan(
			&task.ID,
			&task.Description,
			&task.Completed,
			&task.Owner,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// GetByID fetches a task only if the owner matches. Ownership is part of the
// WHERE clause, so another user's task is indistinguishable from a missing one.
func (r *taskRepository) GetByID(id, owner string) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner = $2`
	return scanTask(r.db.QueryRow(query, id, owner))
}

// Update applies the provided non-nil fields, enforcing ownership
func (r *taskRepository) Update(id, owner string, description *string, completed *bool) (*entities.Task, error) {
	sets := []string{}
	args := []interface{}{}

	if description != nil {
		args = append(args, *description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if completed != nil {
		args = append(args, *completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(id, owner)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id, owner)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d AND owner = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), taskColumns,
	)
	return scanTask(r.db.QueryRow(query, args...))
}

// Delete removes a single task, enforcing ownership, and returns it
func (r *taskRepository) Delete(id, owner string) (*entities.Task, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND owner = $2 RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(query, id, owner))
}

// DeleteAllByOwner removes every task owned by the user
func (r *taskRepository) DeleteAllByOwner(owner string) error {
	if _, err := r.db.Exec(`DELETE FROM tasks WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	return nil
}

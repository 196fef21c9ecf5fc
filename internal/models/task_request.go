package models

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Description string `json:"description" binding:"required"`
	Completed   *bool  `json:"completed,omitempty"`
}

// ListTasksQuery carries the parsed query parameters for task listing
type ListTasksQuery struct {
	Completed *bool  // nil means no completion filter
	Limit     int    // 0 means no limit
	Skip      int
	SortBy    string // column name, empty means createdAt
	SortDesc  bool
}

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tasker-be/internal/models"
	"tasker-be/internal/service"
)

type TaskController struct {
	taskService service.TaskService
}

func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// Create handles POST /tasks
func (tc *TaskController) Create(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	task, err := tc.taskService.CreateTask(user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List handles GET /tasks?completed=&limit=&skip=&sortBy=field:order
func (tc *TaskController) List(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	query, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := tc.taskService.ListTasks(user.ID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/:id
func (tc *TaskController) Get(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	task, err := tc.taskService.GetTask(user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update handles PATCH /tasks/:id. The body is decoded as a free-form
// object so unknown fields reject the whole request.
func (tc *TaskController) Update(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	task, err := tc.taskService.UpdateTask(user.ID, c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /tasks/:id
func (tc *TaskController) Delete(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	task, err := tc.taskService.DeleteTask(user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// parseListQuery parses the task listing query parameters
func parseListQuery(c *gin.Context) (*models.ListTasksQuery, error) {
	query := &models.ListTasksQuery{}

	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errInvalidQueryParam("completed")
		}
		query.Completed = &completed
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidQueryParam("limit")
		}
		query.Limit = limit
	}
	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidQueryParam("skip")
		}
		query.Skip = skip
	}
	if raw := c.Query("sortBy"); raw != "" {
		field, order, found := strings.Cut(raw, ":")
		query.SortBy = field
		if found {
			switch order {
			case "asc":
			case "desc":
				query.SortDesc = true
			default:
				return nil, errInvalidQueryParam("sortBy")
			}
		}
	}

	return query, nil
}

package handlers

import (
	"net/http"

	"project-crm-api/internal/database"
	"project-crm-api/internal/kanban"
	"project-crm-api/internal/logging"
	"project-crm-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	ProjectID   *string           `json:"project_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	Priority    models.Priority   `json:"priority"`
	DueDate     *string           `json:"due_date"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	ProjectID   *string            `json:"project_id"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status"`
	Priority    *models.Priority   `json:"priority"`
	DueDate     *string            `json:"due_date"`
	Position    *int               `json:"position"`
}

// UpdateTaskStatusRequest is the drag-and-drop payload
type UpdateTaskStatusRequest struct {
	Status   models.TaskStatus `json:"status" binding:"required"`
	Position *int              `json:"position"`
}

func taskEngine() *kanban.Engine {
	return kanban.NewEngine(database.GetDB(), logging.L())
}

// GetTasks handles GET /api/tasks?project_id=&status=
func GetTasks(c *gin.Context) {
	tasks, err := taskEngine().ListTasks(c.Request.Context(), kanban.TaskFilter{
		ProjectID: c.Query("project_id"),
		Status:    c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetKanban handles GET /api/tasks/kanban?project_id=
func GetKanban(c *gin.Context) {
	board, err := taskEngine().Board(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetTaskByID handles GET /api/tasks/:id
func GetTaskByID(c *gin.Context) {
	task, err := taskEngine().GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks
func CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := taskEngine().CreateTask(c.Request.Context(), kanban.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id
func UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := taskEngine().UpdateTask(c.Request.Context(), c.Param("id"), kanban.TaskPatch{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Position:    req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status.
// The position is stored as sent; sibling positions are not touched.
func UpdateTaskStatus(c *gin.Context) {
	var req UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := taskEngine().MoveTask(c.Request.Context(), c.Param("id"), req.Status, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func DeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	if err := taskEngine().DeleteTask(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}

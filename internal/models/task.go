package models

import (
	"time"
)

// TaskStatus is the kanban column a task belongs to
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "backlog"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// KanbanColumns lists the board columns in display order
var KanbanColumns = []TaskStatus{StatusBacklog, StatusInProgress, StatusBlocked, StatusDone}

// Priority is shared by tasks and projects
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ProjectRef is the minimal projection of a project joined onto tasks and documents
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a kanban card. Position orders tasks inside one status column and
// is not unique across the board.
type Task struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	ProjectID   *string     `json:"project_id" gorm:"column:project_id;index"`
	Project     *ProjectRef `json:"project" gorm:"-"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description"`
	Status      TaskStatus  `json:"status" gorm:"not null;default:'backlog';index:idx_tasks_status_position"`
	Priority    Priority    `json:"priority" gorm:"not null;default:'medium'"`
	DueDate     *string     `json:"due_date" gorm:"column:due_date"`
	Position    int         `json:"position" gorm:"not null;default:0;index:idx_tasks_status_position"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

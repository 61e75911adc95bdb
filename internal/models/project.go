package models

import (
	"time"
)

// ProjectStatus tracks a project's lifecycle
type ProjectStatus string

const (
	ProjectIdea       ProjectStatus = "idea"
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectArchived   ProjectStatus = "archived"
)

// Project is the main CRM record. Tags are resolved through project_tags on read.
type Project struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	Name          string        `json:"name" gorm:"not null"`
	Description   string        `json:"description"`
	Status        ProjectStatus `json:"status" gorm:"not null;default:'idea';index"`
	Priority      Priority      `json:"priority" gorm:"not null;default:'medium';index"`
	Category      string        `json:"category"`
	ClientID      *string       `json:"client_id" gorm:"column:client_id;index"`
	GithubURL     string        `json:"github_url"`
	DemoURL       string        `json:"demo_url"`
	TechStack     []string      `json:"tech_stack" gorm:"serializer:json"`
	Notes         string        `json:"notes"`
	StartDate     *string       `json:"start_date"`
	TargetDate    *string       `json:"target_date"`
	CompletedDate *string       `json:"completed_date"`
	Tags          []Tag         `json:"tags" gorm:"-"`
	Milestones    []Milestone   `json:"milestones" gorm:"foreignKey:ProjectID"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}

// Milestone is a dated checkpoint owned by a project
type Milestone struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ProjectID string    `json:"project_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	DueDate   *string   `json:"due_date"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Milestone Model
func (Milestone) TableName() string {
	return "milestones"
}

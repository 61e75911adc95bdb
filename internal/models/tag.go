package models

import (
	"time"
)

// DefaultTagColor is used when a tag is created without a color
const DefaultTagColor = "#6366f1"

// Tag is a colored label attachable to projects
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Color     string    `json:"color" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Tag Model
func (Tag) TableName() string {
	return "tags"
}

// ProjectTag links one project to one tag. The autoincrement ID records
// insertion order, which is the order tags are returned in.
type ProjectTag struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ProjectID string `gorm:"not null;index;uniqueIndex:idx_project_tag"`
	TagID     string `gorm:"not null;index;uniqueIndex:idx_project_tag"`
}

// TableName specifies the table name for ProjectTag Model
func (ProjectTag) TableName() string {
	return "project_tags"
}

package models

import (
	"time"
)

// Client is a customer contact
type Client struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;index"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Notes     string    `json:"notes"`
	Projects  []Project `json:"projects,omitempty" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Client Model
func (Client) TableName() string {
	return "clients"
}

// APIKey is a stored third-party credential
type APIKey struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Service     string     `json:"service" gorm:"not null;index"`
	Key         string     `json:"api_key,omitempty" gorm:"column:api_key;not null"`
	Secret      *string    `json:"api_secret,omitempty" gorm:"column:api_secret"`
	Environment string     `json:"environment" gorm:"not null;default:'production'"`
	Notes       string     `json:"notes"`
	LastUsed    *time.Time `json:"last_used"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for APIKey Model
func (APIKey) TableName() string {
	return "api_keys"
}

// Document is the metadata row of a file held in the blob store
type Document struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	ProjectID   *string     `json:"project_id" gorm:"column:project_id;index"`
	Project     *ProjectRef `json:"project,omitempty" gorm:"-"`
	Name        string      `json:"name" gorm:"not null"`
	Description string      `json:"description"`
	Category    string      `json:"category" gorm:"not null;default:'general';index"`
	MimeType    string      `json:"mime_type"`
	FileSize    int64       `json:"file_size"`
	StoragePath string      `json:"storage_path" gorm:"not null"`
	URL         string      `json:"url" gorm:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for Document Model
func (Document) TableName() string {
	return "documents"
}

// AppUser is the single shared account
type AppUser struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for AppUser Model
func (AppUser) TableName() string {
	return "app_users"
}

// All returns every model in migration order
func All() []any {
	return []any{
		&AppUser{},
		&Client{},
		&Project{},
		&Milestone{},
		&Tag{},
		&ProjectTag{},
		&Task{},
		&APIKey{},
		&Document{},
	}
}

package testutil

import (
	"testing"

	"project-crm-api/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
// The pool is pinned to one connection: every connection to ":memory:"
// would otherwise get its own empty database.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := database.Open(":memory:", logger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// SetupDB opens a fresh in-memory DB, installs it as database.DB and closes
// it when the test ends.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

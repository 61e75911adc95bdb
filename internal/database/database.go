package database

import (
	"fmt"
	"time"

	"project-crm-api/internal/config"
	"project-crm-api/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the SQLite database at path, registers the metrics
// callbacks and runs migrations.
func Open(path string, level logger.LogLevel) (*gorm.DB, error) {
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("failed to register sqlite functions: %w", err)
	}

	// glebarez/sqlite is a pure Go driver (no CGO required)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := RegisterMetrics(db); err != nil {
		return nil, fmt.Errorf("failed to register store metrics: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// InitDB initializes the process-wide connection from cfg
func InitDB(cfg config.DatabaseConfig, log *zap.Logger) error {
	db, err := Open(cfg.Path, ParseLogLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	DB = db
	log.Info("database connected and migrated", zap.String("path", cfg.Path))
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}

// ParseLogLevel maps a config string to a gorm log level; unknown values mean warn
func ParseLogLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

package database

import (
	"time"

	"project-crm-api/internal/metrics"

	"gorm.io/gorm"
)

const startedAtKey = "crm:started_at"

// RegisterMetrics installs before/after callbacks that observe each
// statement's duration per operation and table.
func RegisterMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startedAtKey)
			if !ok {
				return
			}
			started, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			metrics.RecordStoreOperation(operation, table, time.Since(started))
		}
	}

	cb := db.Callback()
	steps := []struct {
		op     string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.before("crm:metrics_before_"+s.op, before); err != nil {
			return err
		}
		if err := s.after("crm:metrics_after_"+s.op, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}

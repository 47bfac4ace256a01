package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to a Postgres database.
// AutoMigrate already creates the tag-level indexes; these cover the hot
// query paths (ownership-scoped listing and the reminder deadline scan).
func AddIndexes(db *gorm.DB, logger *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Ownership-scoped task listing
		{"tasks", "idx_tasks_owner_completed", "owner_id, completed"},
		// Reminder deadline scan
		{"tasks", "idx_tasks_deadline", "deadline"},
		// Auth-gate token membership check
		{"auth_tokens", "idx_auth_tokens_user_token", "user_id, token"},
		// Tag membership filter
		{"task_tags", "idx_task_tags_name", "name"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			logger.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns))
	}

	return nil
}

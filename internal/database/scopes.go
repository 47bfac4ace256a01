package database

import (
	"math"

	"gorm.io/gorm"

	"github.com/mkrajewski/task-manager-api/internal/utils"
)

// LimitSkip applies limit/skip list parameters to a GORM query. Values
// below zero are ignored, matching the permissive query-param parsing.
func LimitSkip(params utils.ListParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Skip >= 0 {
			db = db.Offset(params.Skip)
			if params.Limit < 0 {
				// OFFSET is invalid without LIMIT in MySQL and SQLite.
				db = db.Limit(math.MaxInt32)
			}
		}
		if params.Limit >= 0 {
			db = db.Limit(params.Limit)
		}
		return db
	}
}

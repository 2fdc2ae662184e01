package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/task-list-api/internal/utils"
)

// OwnedBy restricts a task query to one owner.
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// TitleContains matches titles containing term, ignoring case. The term is
// matched literally.
func TitleContains(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + utils.EscapeLike(utils.FoldCase(term)) + "%"
		return db.Where("LOWER(title) LIKE ? ESCAPE '"+utils.LikeEscapeChar+"'", pattern)
	}
}

// WithCompleted filters on the completion flag when completed is non-nil.
func WithCompleted(completed *bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if completed == nil {
			return db
		}
		return db.Where("completed = ?", *completed)
	}
}

// NewestFirst orders tasks by creation time, most recent first. Tasks
// created within the same timestamp tick fall back to their time-ordered ID.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	Title     string    `gorm:"type:varchar(1000);not null" json:"title" bson:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed" bson:"completed"`
	OwnerID   string    `gorm:"type:varchar(36);not null;index:idx_tasks_owner_created,priority:1" json:"owner" bson:"owner"`
	CreatedAt time.Time `gorm:"index:idx_tasks_owner_created,priority:2" json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate assigns an ID when the caller did not.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// TaskPatch holds the fields of a partial task update. Nil fields are left
// unchanged.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" bson:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`

	// Relations
	Tasks []Task `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-" bson:"-"`
}

// BeforeCreate assigns an ID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// NewID returns a new record identifier. IDs are UUIDv7, so within one
// process they sort in creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

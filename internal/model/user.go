package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousName is used when the identity carries no display name.
const AnonymousName = "Anonymous"

// UnknownName is shown for bidders whose user record cannot be resolved.
const UnknownName = "Unknown"

// User maps an external identity to a display name.
type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ExternalID string    `json:"externalId" gorm:"size:255;uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"size:255;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

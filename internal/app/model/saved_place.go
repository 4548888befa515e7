package model

import (
	"time"
)

// SavedPlace is one entry of a user's saved-set. The composite unique
// index makes save idempotence structural: inserting an existing pair is
// a conflict, not a duplicate.
type SavedPlace struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_saved_user_business" json:"user_id"`
	BusinessID uint      `gorm:"not null;uniqueIndex:idx_saved_user_business" json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`

	Business Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

func (SavedPlace) TableName() string {
	return "saved_places"
}

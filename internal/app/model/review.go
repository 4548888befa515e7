package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is immutable once created: there is no update path, only
// admin moderation delete.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// BusinessID intentionally carries no foreign key constraint: a review
	// must persist even when its business row is missing (the aggregate
	// update is skipped in that case).
	BusinessID uint `gorm:"not null;index" json:"business_id"`
	UserID     uint `gorm:"not null;index" json:"user_id"`
	User       User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text;not null" json:"comment"`

	PhotoURLs StringArray `gorm:"type:text" json:"photo_urls,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

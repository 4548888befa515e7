package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser          UserRole = "user"
	RoleBusinessOwner UserRole = "business_owner"
	RoleAdmin         UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // stored lower-case
	PasswordHash string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"not null" json:"display_name"`
	Pronouns     string         `gorm:"type:varchar(40)" json:"pronouns,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	ProfileImage string         `json:"profile_image,omitempty"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Businesses []Business `gorm:"foreignKey:OwnerID" json:"businesses,omitempty"`
}

func (User) TableName() string {
	return "users"
}

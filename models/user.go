package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User represents a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email         string         `gorm:"size:255;index" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Role          string         `gorm:"size:16;default:'User'" json:"role"`
	AdminApproved bool           `gorm:"default:false" json:"admin_approved"`
	Banned        bool           `gorm:"default:false" json:"banned"`
	Provider      string         `gorm:"size:32" json:"provider,omitempty"`
	ProviderID    string         `gorm:"size:255" json:"-"`
	RegisterIP    string         `gorm:"size:45" json:"-"`
	AvatarURL     string         `gorm:"size:512" json:"avatar_url"`
	Bio           string         `gorm:"size:512" json:"bio"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Questions     []Question     `json:"-"`
	Answers       []Answer       `json:"-"`
}

// IsAdmin reports whether the user holds an approved admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin && u.AdminApproved
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

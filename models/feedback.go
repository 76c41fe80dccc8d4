package models

import "time"

// Feedback is a user-submitted rating with an optional message.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Message   string    `gorm:"size:1024" json:"message"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}

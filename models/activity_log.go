package models

import "time"

// ActivityLog records notable user actions for the admin reports view.
// Writes are best-effort: a failed log never fails the originating request.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:64;not null" json:"action"`
	Details   string    `gorm:"size:512" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

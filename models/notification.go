package models

import "time"

// Notification types.
const (
	NotifyAnswer  = "answer"
	NotifyComment = "comment"
	NotifyMention = "mention"
	NotifyAdmin   = "admin"
)

// Notification is an in-app message created as a side effect of content
// activity. Only the read flag is ever mutated after creation.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"index;not null" json:"recipient_id"`
	Type        string    `gorm:"size:16;not null;default:'answer'" json:"type"`
	Message     string    `gorm:"size:512;not null" json:"message"`
	Link        string    `gorm:"size:512;not null" json:"link"`
	Read        bool      `gorm:"default:false;index" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package models

import "time"

// Tag is a normalized lowercase label shared across questions. Names are
// unique; tags are created lazily on first use and never deleted.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

// Vote target types.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// Vote values.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote records a single user's ballot on a question or answer. The composite
// unique index enforces at most one vote per (user, target type, target id);
// a concurrent duplicate insert is rejected by the database and surfaced to
// the caller as a conflict.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_votes_user_target;not null" json:"user_id"`
	TargetType string    `gorm:"size:16;uniqueIndex:idx_votes_user_target;index:idx_votes_target;not null" json:"target_type"`
	TargetID   uint      `gorm:"uniqueIndex:idx_votes_user_target;index:idx_votes_target;not null" json:"target_id"`
	Value      int       `gorm:"not null" json:"value"` // VoteUp or VoteDown
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

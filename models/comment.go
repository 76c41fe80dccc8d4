package models

import "time"

// Comment is a short reply attached to an answer.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"index;not null" json:"answer_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

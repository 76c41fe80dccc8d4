package models

import "time"

// Answer is a reply to a question. Counters follow the same vote-ledger
// contract as Question.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Content    string    `gorm:"type:text;not null" json:"content"` // sanitized rich text
	Upvotes    int64     `gorm:"not null;default:0" json:"upvotes"`
	Downvotes  int64     `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Comments   []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}

// Score is the net vote total.
func (a *Answer) Score() int64 {
	return a.Upvotes - a.Downvotes
}

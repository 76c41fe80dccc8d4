package models

import "time"

// Question is a post asking for answers. The upvote/downvote counters are
// denormalized from the votes table and maintained by the vote ledger.
type Question struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text;not null" json:"description"` // sanitized rich text
	AcceptedAnswerID *uint     `gorm:"index" json:"accepted_answer_id"`
	Upvotes          int64     `gorm:"not null;default:0" json:"upvotes"`
	Downvotes        int64     `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	User             User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Tags             []Tag     `gorm:"many2many:question_tags;" json:"tags"`
	Answers          []Answer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answers,omitempty"`
}

// Score is the net vote total shown in listings.
func (q *Question) Score() int64 {
	return q.Upvotes - q.Downvotes
}

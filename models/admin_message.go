package models

import "time"

// AdminMessage is a broadcast sent by an administrator to all users. Delivery
// happens through per-user notifications; the message row is the audit record.
type AdminMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	SentByID  uint      `gorm:"index;not null" json:"sent_by_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	SentBy    User      `gorm:"foreignKey:SentByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sent_by"`
}

package model

import "time"

// Message is an append-only chat turn. ConversationID is nil for messages
// sent outside any conversation. IsAI marks generated replies; Model records
// which model produced an AI turn.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	ConversationID *uint     `gorm:"index" json:"conversation_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsAI           bool      `gorm:"column:is_ai;not null;default:false" json:"is_ai"`
	Model          string    `gorm:"size:64" json:"model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

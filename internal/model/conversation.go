package model

import "time"

// Conversation groups a user's messages under a title and a model choice.
// UpdatedAt is bumped whenever a child message is appended.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Model     string    `gorm:"size:64;not null" json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package repository

import (
	"fmt"

	"gorm.io/gorm"

	"localchat/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's messages in chronological order, scoped to
// one conversation when conversationID is non-nil. The id tie-break keeps the
// order stable when timestamps collide.
func (r *MessageRepository) ListByUserID(userID uint, conversationID *uint) ([]model.Message, error) {
	q := r.db.Where("user_id = ?", userID)
	if conversationID != nil {
		q = q.Where("conversation_id = ?", *conversationID)
	}

	var messages []model.Message
	if err := q.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count messages failed: %w", err)
	}
	return count, nil
}

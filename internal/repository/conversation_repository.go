package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"localchat/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		return fmt.Errorf("create conversation failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's conversations, most recently active first.
func (r *ConversationRepository) ListByUserID(userID uint) ([]model.Conversation, error) {
	var conversations []model.Conversation
	if err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

func (r *ConversationRepository) GetByIDAndUserID(id, userID uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation failed: %w", err)
	}
	return &conversation, nil
}

func (r *ConversationRepository) UpdateTitle(id, userID uint, title string) error {
	if err := r.db.Model(&model.Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now()}).Error; err != nil {
		return fmt.Errorf("update conversation title failed: %w", err)
	}
	return nil
}

// Touch bumps the conversation's updated_at; called when a message lands.
func (r *ConversationRepository) Touch(id uint) error {
	if err := r.db.Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error; err != nil {
		return fmt.Errorf("touch conversation failed: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID removes the conversation and all its messages.
func (r *ConversationRepository) DeleteByIDAndUserID(id, userID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Conversation{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete conversation failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Conversation{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count conversations failed: %w", err)
	}
	return count, nil
}

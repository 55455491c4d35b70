package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"localchat/internal/model"
)

// DocumentRepository stores document metadata and chunk sets, partitioned by
// owner. A document and its chunks are written in one transaction so no
// partial chunk set is ever visible.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) CreateWithChunks(doc *model.Document, chunks []model.Chunk) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return tx.Create(&chunks).Error
	})
	if err != nil {
		return fmt.Errorf("create document with chunks failed: %w", err)
	}
	return nil
}

// ListByUserID returns the owner's documents, newest upload first, with the
// id as a deterministic tie-break.
func (r *DocumentRepository) ListByUserID(userID uint) ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// DeleteByIDAndUserID removes the document and its chunks only when the
// owner matches. Returns false on a missing id or an owner mismatch alike:
// deletion is idempotent and never distinguishes the two to the caller.
func (r *DocumentRepository) DeleteByIDAndUserID(id string, userID uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Document{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("document_id = ?", id).Delete(&model.Chunk{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete document failed: %w", err)
	}
	return deleted, nil
}

// ListChunksByUserID returns every chunk the owner can retrieve over, in
// insertion order (which matches source offset order within each document).
func (r *DocumentRepository) ListChunksByUserID(ctx context.Context, userID uint) ([]model.Chunk, error) {
	var chunks []model.Chunk
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks failed: %w", err)
	}
	return chunks, nil
}

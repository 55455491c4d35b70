package model

import "time"

// Document is the metadata record for one uploaded file. The raw bytes are
// not retained; only the extracted text survives, split into chunks.
// Immutable once created except for deletion by its owner.
type Document struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Filename  string    `gorm:"size:256;not null" json:"filename"`
	FileType  string    `gorm:"size:16;not null" json:"file_type"`
	Size      int64     `gorm:"not null" json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is a bounded substring of a document's extracted text, the unit of
// retrieval. UserID and Filename are denormalized from the parent document so
// retrieval can tenant-filter and render without a join. Position preserves
// source offset order; chunks are never mutated after creation.
type Chunk struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID string `gorm:"size:36;not null;index" json:"document_id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Filename   string `gorm:"size:256;not null" json:"filename"`
	Position   int    `gorm:"not null" json:"position"`
	Content    string `gorm:"type:text;not null" json:"content"`
}

package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"localchat/internal/extract"
	"localchat/internal/model"
	"localchat/internal/rag"
	"localchat/internal/repository"
	"localchat/internal/settings"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentEmpty    = errors.New("document has no extractable text")
)

type DocumentService struct {
	documentRepo *repository.DocumentRepository
	extractor    *extract.Extractor
	retriever    *rag.Retriever
	settings     *settings.Store
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	extractor *extract.Extractor,
	retriever *rag.Retriever,
	settingsStore *settings.Store,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		extractor:    extractor,
		retriever:    retriever,
		settings:     settingsStore,
	}
}

type UploadInput struct {
	UserID   uint
	Filename string
	Data     []byte
}

// Upload extracts the file's text, splits it into overlapping chunks and
// stores document and chunks in one transaction. The document only exists
// once all of its chunks do.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*model.Document, int, error) {
	if input.UserID == 0 || strings.TrimSpace(input.Filename) == "" || len(input.Data) == 0 {
		return nil, 0, ErrInvalidInput
	}

	ext := extract.NormalizeExt(input.Filename)
	text, err := s.extractor.Text(ext, input.Filename, input.Data)
	if err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, 0, ErrDocumentEmpty
	}

	pieces := rag.Split(text)
	if len(pieces) == 0 {
		return nil, 0, ErrDocumentEmpty
	}

	document := &model.Document{
		ID:       uuid.NewString(),
		UserID:   input.UserID,
		Filename: input.Filename,
		FileType: ext,
		Size:     int64(len(input.Data)),
	}
	chunks := make([]model.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = model.Chunk{
			DocumentID: document.ID,
			UserID:     input.UserID,
			Filename:   input.Filename,
			Position:   i,
			Content:    piece,
		}
	}

	if err := s.documentRepo.CreateWithChunks(document, chunks); err != nil {
		return nil, 0, err
	}
	return document, len(chunks), nil
}

func (s *DocumentService) List(ctx context.Context, userID uint) ([]model.Document, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.documentRepo.ListByUserID(userID)
}

// Delete removes the document and its chunks. Deleting a document that does
// not exist, or that belongs to another user, reports ErrDocumentNotFound.
func (s *DocumentService) Delete(ctx context.Context, userID uint, documentID string) error {
	if userID == 0 || strings.TrimSpace(documentID) == "" {
		return ErrInvalidInput
	}
	deleted, err := s.documentRepo.DeleteByIDAndUserID(documentID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrDocumentNotFound
	}
	return nil
}

// SearchContext runs retrieval over the user's chunks and renders the result
// the same way the chat prompt does. An empty string means nothing matched.
func (s *DocumentService) SearchContext(ctx context.Context, userID uint, query string) (string, error) {
	if userID == 0 {
		return "", ErrInvalidInput
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrInvalidInput
	}

	chunks := s.retriever.Search(ctx, query, userID)
	snap := s.settings.Current()
	if snap.MaxContextChunks > 0 && len(chunks) > snap.MaxContextChunks {
		chunks = chunks[:snap.MaxContextChunks]
	}
	return rag.RenderChunks(chunks), nil
}

// SupportedTypes lists the upload extensions the extractor accepts.
func (s *DocumentService) SupportedTypes() []string {
	return s.extractor.SupportedTypes()
}

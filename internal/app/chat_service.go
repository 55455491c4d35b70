package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"localchat/internal/model"
	"localchat/internal/pkg/logx"
	"localchat/internal/repository"
	"localchat/internal/settings"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageEmpty         = errors.New("message content is empty")
	ErrMessageEnqueue       = errors.New("message enqueue failed")
)

// AsyncMessagePublisher hands a message to the persistence queue.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// Generator is the inference call; *ai.OllamaClient satisfies it.
type Generator interface {
	Generate(ctx context.Context, apiURL, model, prompt string) (string, error)
}

// PromptComposer renders the final prompt; *rag.Composer satisfies it.
type PromptComposer interface {
	Compose(ctx context.Context, msg string, userID uint, conversationID *uint, snap settings.Snapshot) string
}

type ChatService struct {
	conversationRepo *repository.ConversationRepository
	history          *HistoryProvider
	publisher        AsyncMessagePublisher
	composer         PromptComposer
	generator        Generator
	settings         *settings.Store
	defaultModel     string
}

func NewChatService(
	conversationRepo *repository.ConversationRepository,
	history *HistoryProvider,
	publisher AsyncMessagePublisher,
	composer PromptComposer,
	generator Generator,
	settingsStore *settings.Store,
	defaultModel string,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		history:          history,
		publisher:        publisher,
		composer:         composer,
		generator:        generator,
		settings:         settingsStore,
		defaultModel:     defaultModel,
	}
}

type SendMessageInput struct {
	UserID         uint
	ConversationID *uint
	Content        string
	Model          string
}

// SendMessageResult carries both turns of one exchange. When inference
// fails, UserMessage is still set: the user's message is already queued for
// persistence and must not be lost with the reply.
type SendMessageResult struct {
	UserMessage *model.Message `json:"user_message"`
	AIMessage   *model.Message `json:"ai_message,omitempty"`
	Prompt      string         `json:"-"`
}

// SendMessage runs the chat flow: validate, queue the user message, compose
// the prompt under the current settings snapshot, call the inference server,
// queue the AI reply.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	modelName := strings.TrimSpace(input.Model)
	if input.ConversationID != nil {
		conversation, err := s.conversationRepo.GetByIDAndUserID(*input.ConversationID, input.UserID)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, ErrConversationNotFound
		}
		if modelName == "" {
			modelName = conversation.Model
		}
	}
	if modelName == "" {
		modelName = s.defaultModel
	}

	snap := s.settings.Current()
	prompt := s.composer.Compose(ctx, content, input.UserID, input.ConversationID, snap)

	userMessage := &model.Message{
		UserID:         input.UserID,
		ConversationID: input.ConversationID,
		Content:        content,
		IsAI:           false,
		CreatedAt:      time.Now(),
	}
	s.history.Invalidate(ctx, input.UserID, input.ConversationID)
	if err := s.publisher.Publish(ctx, *userMessage); err != nil {
		logx.Errorf("enqueue user message failed: %v", err)
		return nil, ErrMessageEnqueue
	}

	result := &SendMessageResult{UserMessage: userMessage, Prompt: prompt}

	reply, err := s.generator.Generate(ctx, snap.OllamaAPIURL, modelName, prompt)
	if err != nil {
		// The user message stays queued; only the reply is missing.
		return result, err
	}

	aiMessage := &model.Message{
		UserID:         input.UserID,
		ConversationID: input.ConversationID,
		Content:        reply,
		IsAI:           true,
		Model:          modelName,
		CreatedAt:      time.Now(),
	}
	s.history.Invalidate(ctx, input.UserID, input.ConversationID)
	if err := s.publisher.Publish(ctx, *aiMessage); err != nil {
		logx.Errorf("enqueue ai message failed: %v", err)
		return result, ErrMessageEnqueue
	}

	result.AIMessage = aiMessage
	return result, nil
}

// GetHistory returns the user's chronological history, optionally scoped to
// one conversation and trimmed to the last limit messages.
func (s *ChatService) GetHistory(ctx context.Context, userID uint, conversationID *uint, limit int) ([]model.Message, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if conversationID != nil {
		conversation, err := s.conversationRepo.GetByIDAndUserID(*conversationID, userID)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, ErrConversationNotFound
		}
	}

	messages, err := s.history.History(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	return trimMessages(messages, limit), nil
}

type CreateConversationInput struct {
	UserID uint
	Title  string
	Model  string
}

func (s *ChatService) CreateConversation(input CreateConversationInput) (*model.Conversation, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Chat"
	}
	modelName := strings.TrimSpace(input.Model)
	if modelName == "" {
		modelName = s.defaultModel
	}

	conversation := &model.Conversation{
		UserID: input.UserID,
		Title:  title,
		Model:  modelName,
	}
	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *ChatService) ListConversations(userID uint) ([]model.Conversation, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.conversationRepo.ListByUserID(userID)
}

// GetConversation returns the conversation and its full message history.
func (s *ChatService) GetConversation(ctx context.Context, userID, conversationID uint) (*model.Conversation, []model.Message, error) {
	if userID == 0 || conversationID == 0 {
		return nil, nil, ErrInvalidInput
	}
	conversation, err := s.conversationRepo.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return nil, nil, err
	}
	if conversation == nil {
		return nil, nil, ErrConversationNotFound
	}

	messages, err := s.history.History(ctx, userID, &conversationID)
	if err != nil {
		return nil, nil, err
	}
	return conversation, messages, nil
}

func (s *ChatService) RenameConversation(userID, conversationID uint, title string) (*model.Conversation, error) {
	if userID == 0 || conversationID == 0 || strings.TrimSpace(title) == "" {
		return nil, ErrInvalidInput
	}
	conversation, err := s.conversationRepo.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	if err := s.conversationRepo.UpdateTitle(conversationID, userID, strings.TrimSpace(title)); err != nil {
		return nil, err
	}
	return s.conversationRepo.GetByIDAndUserID(conversationID, userID)
}

func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
	if userID == 0 || conversationID == 0 {
		return ErrInvalidInput
	}
	conversation, err := s.conversationRepo.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}

	if err := s.conversationRepo.DeleteByIDAndUserID(conversationID, userID); err != nil {
		return err
	}
	s.history.Invalidate(ctx, userID, &conversationID)
	return nil
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}

package app

import (
	"context"

	"localchat/internal/cache"
	"localchat/internal/model"
	"localchat/internal/pkg/logx"
	"localchat/internal/repository"
)

// HistoryProvider serves chronological message histories, reading through
// the Redis cache when the stream is not dirty. It backs both the history
// endpoint and the composer's memory path. A nil cache means every read
// goes to the database.
type HistoryProvider struct {
	messageRepo  *repository.MessageRepository
	historyCache *cache.HistoryCache
}

func NewHistoryProvider(messageRepo *repository.MessageRepository, historyCache *cache.HistoryCache) *HistoryProvider {
	return &HistoryProvider{messageRepo: messageRepo, historyCache: historyCache}
}

// History implements rag.HistorySource.
func (p *HistoryProvider) History(ctx context.Context, userID uint, conversationID *uint) ([]model.Message, error) {
	if p.historyCache != nil {
		if dirty, err := p.historyCache.IsDirty(ctx, userID, conversationID); err == nil && !dirty {
			if cached, hit, cacheErr := p.historyCache.GetHistory(ctx, userID, conversationID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := p.messageRepo.ListByUserID(userID, conversationID)
	if err != nil {
		return nil, err
	}

	if p.historyCache != nil {
		if dirty, err := p.historyCache.IsDirty(ctx, userID, conversationID); err == nil && !dirty {
			if err := p.historyCache.SetHistory(ctx, userID, conversationID, messages); err != nil {
				logx.Warnf("cache history failed for user %d: %v", userID, err)
			}
		}
	}
	return messages, nil
}

// Invalidate drops the cached stream and marks it dirty so reads skip the
// cache until the async persist has settled.
func (p *HistoryProvider) Invalidate(ctx context.Context, userID uint, conversationID *uint) {
	if p.historyCache == nil {
		return
	}
	if err := p.historyCache.MarkDirty(ctx, userID, conversationID); err != nil {
		logx.Warnf("mark history dirty failed for user %d: %v", userID, err)
	}
	if err := p.historyCache.DeleteHistory(ctx, userID, conversationID); err != nil {
		logx.Warnf("invalidate history failed for user %d: %v", userID, err)
	}
}

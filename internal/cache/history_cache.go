package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"localchat/internal/model"
)

// HistoryCache keeps recently read message histories in Redis. A short-lived
// dirty marker set on every write suppresses caching until the async persist
// worker has had a chance to land the new rows.
type HistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &HistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, userID uint, conversationID *uint) ([]model.Message, bool, error) {
	raw, err := c.client.Get(ctx, c.historyKey(userID, conversationID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return messages, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, userID uint, conversationID *uint, messages []model.Message) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.historyKey(userID, conversationID), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, userID uint, conversationID *uint) error {
	if err := c.client.Del(ctx, c.historyKey(userID, conversationID)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) MarkDirty(ctx context.Context, userID uint, conversationID *uint) error {
	if err := c.client.Set(ctx, c.dirtyKey(userID, conversationID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) IsDirty(ctx context.Context, userID uint, conversationID *uint) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(userID, conversationID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

// conversation id 0 keys the user's unscoped message stream.
func (c *HistoryCache) historyKey(userID uint, conversationID *uint) string {
	return fmt.Sprintf("chat:history:%d:%d", userID, deref(conversationID))
}

func (c *HistoryCache) dirtyKey(userID uint, conversationID *uint) string {
	return fmt.Sprintf("chat:history:dirty:%d:%d", userID, deref(conversationID))
}

func deref(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

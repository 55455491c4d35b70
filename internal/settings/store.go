// Package settings holds the runtime-adjustable chat configuration behind a
// copy-on-write store, so a request always works against one consistent
// snapshot while updates land for the next request.
package settings

import (
	"context"
	"errors"
	"strconv"
	"sync"

	redisv9 "github.com/redis/go-redis/v9"

	"localchat/internal/pkg/logx"
)

const (
	MinMemoryWindow    = 1
	MaxMemoryWindow    = 50
	MinContextChunks   = 1
	MaxContextChunks   = 10
	redisKey           = "localchat:settings"
	fieldRAGEnabled    = "rag_enabled"
	fieldMemoryEnabled = "memory_enabled"
	fieldMemoryWindow  = "memory_window"
	fieldContextChunks = "max_context_chunks"
	fieldOllamaAPIURL  = "ollama_api_url"
)

var (
	ErrMemoryWindowRange  = errors.New("memory window out of range")
	ErrContextChunksRange = errors.New("max context chunks out of range")
	ErrOllamaURLEmpty     = errors.New("ollama api url must not be empty")
)

// Snapshot is one immutable view of the runtime settings. Copy it freely.
type Snapshot struct {
	RAGEnabled       bool   `json:"rag_enabled"`
	MemoryEnabled    bool   `json:"memory_enabled"`
	MemoryWindow     int    `json:"memory_window"`
	MaxContextChunks int    `json:"max_context_chunks"`
	OllamaAPIURL     string `json:"ollama_api_url"`
}

// Update carries a partial settings change; nil fields are left untouched.
type Update struct {
	RAGEnabled       *bool   `json:"rag_enabled"`
	MemoryEnabled    *bool   `json:"memory_enabled"`
	MemoryWindow     *int    `json:"memory_window"`
	MaxContextChunks *int    `json:"max_context_chunks"`
	OllamaAPIURL     *string `json:"ollama_api_url"`
}

// Store mediates settings reads and writes. Persistence into a Redis hash is
// best-effort: with Redis down (or a nil client, as in tests) the store still
// serves the in-process state.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	redis   *redisv9.Client
}

func NewStore(defaults Snapshot, redisClient *redisv9.Client) *Store {
	return &Store{current: defaults, redis: redisClient}
}

// Load overlays any previously persisted settings onto the defaults.
func (s *Store) Load(ctx context.Context) {
	if s.redis == nil {
		return
	}
	fields, err := s.redis.HGetAll(ctx, redisKey).Result()
	if err != nil {
		logx.Warnf("load persisted settings failed: %v", err)
		return
	}
	if len(fields) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if raw, ok := fields[fieldRAGEnabled]; ok {
		s.current.RAGEnabled = raw == "1"
	}
	if raw, ok := fields[fieldMemoryEnabled]; ok {
		s.current.MemoryEnabled = raw == "1"
	}
	if raw, ok := fields[fieldMemoryWindow]; ok {
		if v, err := strconv.Atoi(raw); err == nil && v >= MinMemoryWindow && v <= MaxMemoryWindow {
			s.current.MemoryWindow = v
		}
	}
	if raw, ok := fields[fieldContextChunks]; ok {
		if v, err := strconv.Atoi(raw); err == nil && v >= MinContextChunks && v <= MaxContextChunks {
			s.current.MaxContextChunks = v
		}
	}
	if raw, ok := fields[fieldOllamaAPIURL]; ok && raw != "" {
		s.current.OllamaAPIURL = raw
	}
}

// Current returns the snapshot requests should work against.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Apply validates the update, installs the new snapshot and persists it.
// On a validation error nothing changes.
func (s *Store) Apply(ctx context.Context, update Update) (Snapshot, error) {
	s.mu.Lock()
	next := s.current
	if update.RAGEnabled != nil {
		next.RAGEnabled = *update.RAGEnabled
	}
	if update.MemoryEnabled != nil {
		next.MemoryEnabled = *update.MemoryEnabled
	}
	if update.MemoryWindow != nil {
		if *update.MemoryWindow < MinMemoryWindow || *update.MemoryWindow > MaxMemoryWindow {
			s.mu.Unlock()
			return Snapshot{}, ErrMemoryWindowRange
		}
		next.MemoryWindow = *update.MemoryWindow
	}
	if update.MaxContextChunks != nil {
		if *update.MaxContextChunks < MinContextChunks || *update.MaxContextChunks > MaxContextChunks {
			s.mu.Unlock()
			return Snapshot{}, ErrContextChunksRange
		}
		next.MaxContextChunks = *update.MaxContextChunks
	}
	if update.OllamaAPIURL != nil {
		if *update.OllamaAPIURL == "" {
			s.mu.Unlock()
			return Snapshot{}, ErrOllamaURLEmpty
		}
		next.OllamaAPIURL = *update.OllamaAPIURL
	}
	s.current = next
	s.mu.Unlock()

	s.persist(ctx, next)
	return next, nil
}

func (s *Store) persist(ctx context.Context, snap Snapshot) {
	if s.redis == nil {
		return
	}
	fields := map[string]interface{}{
		fieldRAGEnabled:    boolField(snap.RAGEnabled),
		fieldMemoryEnabled: boolField(snap.MemoryEnabled),
		fieldMemoryWindow:  snap.MemoryWindow,
		fieldContextChunks: snap.MaxContextChunks,
		fieldOllamaAPIURL:  snap.OllamaAPIURL,
	}
	if err := s.redis.HSet(ctx, redisKey, fields).Err(); err != nil {
		logx.Warnf("persist settings failed: %v", err)
	}
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

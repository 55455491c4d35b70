package rag

import (
	"context"
	"fmt"
	"strings"

	"localchat/internal/model"
	"localchat/internal/pkg/logx"
	"localchat/internal/settings"
)

const (
	ragPromptHeader = "I'll provide some context from documents that might help answer this question:\n\n"
	ragPromptBridge = "\nWith this context in mind, please answer the following question: "
)

// ChunkSearcher is the retrieval half of the composer; *Retriever satisfies it.
type ChunkSearcher interface {
	Search(ctx context.Context, query string, userID uint) []model.Chunk
}

// HistorySource returns a user's chronologically ordered message history,
// optionally scoped to one conversation (nil = the user's full stream).
type HistorySource interface {
	History(ctx context.Context, userID uint, conversationID *uint) ([]model.Message, error)
}

// Composer decides, per message, whether the prompt gets retrieved-document
// context, recent-turn context, or neither, and renders the final prompt
// string. The two paths are mutually exclusive, document context winning.
// Composition never fails: each path degrades independently to "no context".
type Composer struct {
	searcher ChunkSearcher
	history  HistorySource
}

func NewComposer(searcher ChunkSearcher, history HistorySource) *Composer {
	return &Composer{searcher: searcher, history: history}
}

// Compose renders the prompt for message under the given settings snapshot.
func (c *Composer) Compose(ctx context.Context, msg string, userID uint, conversationID *uint, snap settings.Snapshot) string {
	if snap.RAGEnabled && c.searcher != nil {
		if prompt, ok := c.composeWithDocuments(ctx, msg, userID, snap.MaxContextChunks); ok {
			return prompt
		}
	}
	if snap.MemoryEnabled && c.history != nil {
		if prompt, ok := c.composeWithMemory(ctx, msg, userID, conversationID, snap.MemoryWindow); ok {
			return prompt
		}
	}
	return msg
}

func (c *Composer) composeWithDocuments(ctx context.Context, msg string, userID uint, maxChunks int) (string, bool) {
	chunks := c.searcher.Search(ctx, msg, userID)
	if len(chunks) == 0 {
		return "", false
	}
	if maxChunks > 0 && len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	return ragPromptHeader + RenderChunks(chunks) + ragPromptBridge + msg, true
}

// RenderChunks renders retrieved chunks as prompt context, each attributed to
// its source document.
func RenderChunks(chunks []model.Chunk) string {
	var rendered strings.Builder
	for _, chunk := range chunks {
		fmt.Fprintf(&rendered, "From document: %s\n%s\n\n", chunk.Filename, chunk.Content)
	}
	return rendered.String()
}

func (c *Composer) composeWithMemory(ctx context.Context, msg string, userID uint, conversationID *uint, windowSize int) (string, bool) {
	history, err := c.history.History(ctx, userID, conversationID)
	if err != nil {
		logx.Warnf("memory context failed for user %d: %v", userID, err)
		return "", false
	}

	selected := Window(history, windowSize)
	if len(selected) == 0 {
		return "", false
	}

	lines := make([]string, len(selected))
	for i, m := range selected {
		lines[i] = "Previous message: " + m.Content
	}
	return strings.Join(lines, "\n") + "\n\nCurrent message: " + msg, true
}

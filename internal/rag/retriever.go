package rag

import (
	"context"
	"sort"
	"strings"

	"localchat/internal/model"
	"localchat/internal/pkg/logx"
)

// DefaultTopK bounds how many chunks a search returns.
const DefaultTopK = 5

// minTokenLength approximates a stop-word filter: query tokens this short or
// shorter are discarded before scoring.
const minTokenLength = 3

// ChunkSource lists a single owner's chunks in insertion order. The tenant
// filter lives in the source query, not in the scorer.
type ChunkSource interface {
	ListChunksByUserID(ctx context.Context, userID uint) ([]model.Chunk, error)
}

// Retriever ranks an owner's chunks against a query by keyword frequency.
// This is deliberately a lexical heuristic, not semantic similarity.
type Retriever struct {
	source ChunkSource
	topK   int
}

func NewRetriever(source ChunkSource, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{source: source, topK: topK}
}

// Search returns at most topK chunks owned by userID, ranked by descending
// keyword score with ties kept in insertion order. Chunks that match no
// token are excluded; a query matching nothing returns an empty result.
// Internal faults degrade to an empty result with a warning: a failed search
// must never break the surrounding chat flow.
func (r *Retriever) Search(ctx context.Context, query string, userID uint) []model.Chunk {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	candidates, err := r.source.ListChunksByUserID(ctx, userID)
	if err != nil {
		logx.Warnf("chunk search failed for user %d: %v", userID, err)
		return nil
	}

	type scoredChunk struct {
		chunk model.Chunk
		score int
	}
	scored := make([]scoredChunk, 0, len(candidates))
	for _, chunk := range candidates {
		content := strings.ToLower(chunk.Content)
		score := 0
		for _, token := range tokens {
			score += countOccurrences(content, token)
		}
		if score > 0 {
			scored = append(scored, scoredChunk{chunk: chunk, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}

	results := make([]model.Chunk, len(scored))
	for i := range scored {
		results[i] = scored[i].chunk
	}
	return results
}

// Tokenize lower-cases the query, splits it on whitespace runs and drops
// tokens of length <= 3.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// countOccurrences counts substring matches of token in content, including
// overlapping ones: the scan resumes one byte past each match start.
func countOccurrences(content, token string) int {
	if token == "" {
		return 0
	}
	count := 0
	for start := 0; ; {
		idx := strings.Index(content[start:], token)
		if idx < 0 {
			return count
		}
		count++
		start += idx + 1
	}
}

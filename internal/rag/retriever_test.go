package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localchat/internal/model"
)

type fakeChunkSource struct {
	chunks map[uint][]model.Chunk
	err    error
}

func (f *fakeChunkSource) ListChunksByUserID(_ context.Context, userID uint) ([]model.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks[userID], nil
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"golang", "channels"}, Tokenize("How do Golang channels fit"))
	assert.Empty(t, Tokenize("is it a go"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \t  "))
}

func TestSearchNoMatch(t *testing.T) {
	source := &fakeChunkSource{chunks: map[uint][]model.Chunk{
		1: {{ID: 1, UserID: 1, Content: "completely unrelated text"}},
	}}
	r := NewRetriever(source, DefaultTopK)

	assert.Empty(t, r.Search(context.Background(), "quantum physics", 1))
}

func TestSearchRanksByFrequency(t *testing.T) {
	source := &fakeChunkSource{chunks: map[uint][]model.Chunk{
		1: {
			{ID: 1, UserID: 1, Content: "redis is a cache"},
			{ID: 2, UserID: 1, Content: "redis redis redis everywhere"},
			{ID: 3, UserID: 1, Content: "nothing relevant here"},
		},
	}}
	r := NewRetriever(source, DefaultTopK)

	results := r.Search(context.Background(), "what is redis", 1)
	require.Len(t, results, 2)
	assert.Equal(t, uint(2), results[0].ID)
	assert.Equal(t, uint(1), results[1].ID)
}

func TestSearchTieKeepsInsertionOrder(t *testing.T) {
	source := &fakeChunkSource{chunks: map[uint][]model.Chunk{
		1: {
			{ID: 1, UserID: 1, Content: "kafka broker"},
			{ID: 2, UserID: 1, Content: "kafka topics"},
		},
	}}
	r := NewRetriever(source, DefaultTopK)

	results := r.Search(context.Background(), "tell me about kafka", 1)
	require.Len(t, results, 2)
	assert.Equal(t, uint(1), results[0].ID)
	assert.Equal(t, uint(2), results[1].ID)
}

func TestSearchCapsAtTopK(t *testing.T) {
	var chunks []model.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, model.Chunk{ID: uint(i + 1), UserID: 1, Content: "golang service"})
	}
	source := &fakeChunkSource{chunks: map[uint][]model.Chunk{1: chunks}}
	r := NewRetriever(source, 5)

	results := r.Search(context.Background(), "golang", 1)
	assert.Len(t, results, 5)
}

func TestSearchIsTenantScoped(t *testing.T) {
	source := &fakeChunkSource{chunks: map[uint][]model.Chunk{
		1: {{ID: 1, UserID: 1, Content: "golang notes"}},
		2: {{ID: 2, UserID: 2, Content: "golang notes"}},
	}}
	r := NewRetriever(source, DefaultTopK)

	results := r.Search(context.Background(), "golang", 2)
	require.Len(t, results, 1)
	assert.Equal(t, uint(2), results[0].UserID)
}

func TestSearchShortTokensIgnored(t *testing.T) {
	source := &fakeChunkSource{chunks: map[uint][]model.Chunk{
		1: {{ID: 1, UserID: 1, Content: "the cat sat"}},
	}}
	r := NewRetriever(source, DefaultTopK)

	// Every query token is <= 3 characters, so nothing is scored.
	assert.Empty(t, r.Search(context.Background(), "the cat sat", 1))
}

func TestSearchSourceFailureDegradesToEmpty(t *testing.T) {
	source := &fakeChunkSource{err: errors.New("db down")}
	r := NewRetriever(source, DefaultTopK)

	assert.Empty(t, r.Search(context.Background(), "anything relevant", 1))
}

func TestCountOccurrencesOverlapping(t *testing.T) {
	assert.Equal(t, 3, countOccurrences("aaaa", "aa"))
	assert.Equal(t, 0, countOccurrences("abc", "xyz"))
	assert.Equal(t, 3, countOccurrences("go gopher goes", "go"))
}

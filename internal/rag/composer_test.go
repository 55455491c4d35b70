package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localchat/internal/model"
	"localchat/internal/settings"
)

type fakeSearcher struct {
	chunks []model.Chunk
}

func (f *fakeSearcher) Search(context.Context, string, uint) []model.Chunk {
	return f.chunks
}

type fakeHistory struct {
	messages []model.Message
	err      error
}

func (f *fakeHistory) History(context.Context, uint, *uint) ([]model.Message, error) {
	return f.messages, f.err
}

func testSnapshot() settings.Snapshot {
	return settings.Snapshot{
		RAGEnabled:       true,
		MemoryEnabled:    true,
		MemoryWindow:     10,
		MaxContextChunks: 3,
	}
}

func TestComposeDocumentContext(t *testing.T) {
	searcher := &fakeSearcher{chunks: []model.Chunk{
		{Filename: "notes.txt", Content: "redis is an in-memory store"},
	}}
	c := NewComposer(searcher, &fakeHistory{})

	prompt := c.Compose(context.Background(), "what is redis", 1, nil, testSnapshot())

	assert.Equal(t,
		"I'll provide some context from documents that might help answer this question:\n\n"+
			"From document: notes.txt\nredis is an in-memory store\n\n"+
			"\nWith this context in mind, please answer the following question: what is redis",
		prompt)
}

func TestComposeDocumentContextCapsChunks(t *testing.T) {
	searcher := &fakeSearcher{chunks: []model.Chunk{
		{Filename: "a.txt", Content: "one"},
		{Filename: "a.txt", Content: "two"},
		{Filename: "a.txt", Content: "three"},
		{Filename: "a.txt", Content: "four"},
	}}
	c := NewComposer(searcher, &fakeHistory{})

	prompt := c.Compose(context.Background(), "query text", 1, nil, testSnapshot())
	assert.Equal(t, 3, strings.Count(prompt, "From document:"))
	assert.NotContains(t, prompt, "four")
}

func TestComposeDocumentWinsOverMemory(t *testing.T) {
	searcher := &fakeSearcher{chunks: []model.Chunk{{Filename: "a.txt", Content: "hit"}}}
	history := &fakeHistory{messages: []model.Message{{Content: "older question"}}}
	c := NewComposer(searcher, history)

	prompt := c.Compose(context.Background(), "query text", 1, nil, testSnapshot())
	assert.Contains(t, prompt, "From document:")
	assert.NotContains(t, prompt, "Previous message:")
}

func TestComposeMemoryContext(t *testing.T) {
	history := &fakeHistory{messages: []model.Message{
		{Content: "first question"},
		{Content: "second question"},
	}}
	c := NewComposer(&fakeSearcher{}, history)

	prompt := c.Compose(context.Background(), "third question", 1, nil, testSnapshot())
	assert.Equal(t,
		"Previous message: first question\n"+
			"Previous message: second question\n\n"+
			"Current message: third question",
		prompt)
}

func TestComposeNoContextPassesThrough(t *testing.T) {
	c := NewComposer(&fakeSearcher{}, &fakeHistory{})

	prompt := c.Compose(context.Background(), "plain question", 1, nil, testSnapshot())
	assert.Equal(t, "plain question", prompt)
}

func TestComposeDisabledFlags(t *testing.T) {
	searcher := &fakeSearcher{chunks: []model.Chunk{{Filename: "a.txt", Content: "hit"}}}
	history := &fakeHistory{messages: []model.Message{{Content: "older"}}}
	c := NewComposer(searcher, history)

	snap := testSnapshot()
	snap.RAGEnabled = false
	snap.MemoryEnabled = false

	assert.Equal(t, "raw question", c.Compose(context.Background(), "raw question", 1, nil, snap))
}

func TestComposeMemoryFailureDegrades(t *testing.T) {
	history := &fakeHistory{err: errors.New("cache down")}
	c := NewComposer(&fakeSearcher{}, history)

	prompt := c.Compose(context.Background(), "still works", 1, nil, testSnapshot())
	assert.Equal(t, "still works", prompt)
}

func TestRenderChunks(t *testing.T) {
	rendered := RenderChunks([]model.Chunk{
		{Filename: "a.txt", Content: "alpha"},
		{Filename: "b.txt", Content: "beta"},
	})
	require.Equal(t, "From document: a.txt\nalpha\n\nFrom document: b.txt\nbeta\n\n", rendered)
}

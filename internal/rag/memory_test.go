package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localchat/internal/model"
)

func TestWindowFiltersAITurnsAfterTail(t *testing.T) {
	history := []model.Message{
		{ID: 1, Content: "hi there", IsAI: true},
		{ID: 2, Content: "a"},
		{ID: 3, Content: "b"},
		{ID: 4, Content: "c"},
	}

	// The tail is taken first: the window covers [b, c], both human.
	selected := Window(history, 2)
	require.Len(t, selected, 2)
	assert.Equal(t, "b", selected[0].Content)
	assert.Equal(t, "c", selected[1].Content)
}

func TestWindowShrinksWhenAITurnsInside(t *testing.T) {
	history := []model.Message{
		{ID: 1, Content: "question"},
		{ID: 2, Content: "answer", IsAI: true},
	}

	selected := Window(history, 2)
	require.Len(t, selected, 1)
	assert.Equal(t, "question", selected[0].Content)
}

func TestWindowAllAI(t *testing.T) {
	history := []model.Message{
		{ID: 1, Content: "answer one", IsAI: true},
		{ID: 2, Content: "answer two", IsAI: true},
	}
	assert.Empty(t, Window(history, 5))
}

func TestWindowEmptyHistory(t *testing.T) {
	assert.Empty(t, Window(nil, 5))
}

func TestWindowDefaultSize(t *testing.T) {
	var history []model.Message
	for i := 0; i < 20; i++ {
		history = append(history, model.Message{ID: uint(i + 1), Content: "m"})
	}

	selected := Window(history, 0)
	assert.Len(t, selected, DefaultMemoryWindow)
}

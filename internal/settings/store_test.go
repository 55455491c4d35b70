package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Snapshot {
	return Snapshot{
		RAGEnabled:       true,
		MemoryEnabled:    true,
		MemoryWindow:     10,
		MaxContextChunks: 3,
		OllamaAPIURL:     "http://localhost:11434",
	}
}

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCurrentReturnsDefaults(t *testing.T) {
	store := NewStore(defaults(), nil)
	assert.Equal(t, defaults(), store.Current())
}

func TestApplyPartialUpdate(t *testing.T) {
	store := NewStore(defaults(), nil)

	snap, err := store.Apply(context.Background(), Update{
		RAGEnabled:   boolPtr(false),
		MemoryWindow: intPtr(25),
	})
	require.NoError(t, err)
	assert.False(t, snap.RAGEnabled)
	assert.Equal(t, 25, snap.MemoryWindow)
	// Untouched fields keep their values.
	assert.True(t, snap.MemoryEnabled)
	assert.Equal(t, 3, snap.MaxContextChunks)

	assert.Equal(t, snap, store.Current())
}

func TestApplyMemoryWindowRange(t *testing.T) {
	store := NewStore(defaults(), nil)

	for _, bad := range []int{0, -1, 51} {
		_, err := store.Apply(context.Background(), Update{MemoryWindow: intPtr(bad)})
		assert.ErrorIs(t, err, ErrMemoryWindowRange, "window %d", bad)
	}
	// A rejected update must not change the snapshot.
	assert.Equal(t, defaults(), store.Current())
}

func TestApplyContextChunksRange(t *testing.T) {
	store := NewStore(defaults(), nil)

	for _, bad := range []int{0, 11} {
		_, err := store.Apply(context.Background(), Update{MaxContextChunks: intPtr(bad)})
		assert.ErrorIs(t, err, ErrContextChunksRange, "chunks %d", bad)
	}
	assert.Equal(t, defaults(), store.Current())
}

func TestApplyEmptyOllamaURL(t *testing.T) {
	store := NewStore(defaults(), nil)

	_, err := store.Apply(context.Background(), Update{OllamaAPIURL: strPtr("")})
	assert.ErrorIs(t, err, ErrOllamaURLEmpty)
	assert.Equal(t, defaults(), store.Current())
}

func TestApplyOllamaURL(t *testing.T) {
	store := NewStore(defaults(), nil)

	snap, err := store.Apply(context.Background(), Update{OllamaAPIURL: strPtr("http://10.0.0.5:11434")})
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:11434", snap.OllamaAPIURL)
}

func TestSnapshotIsolation(t *testing.T) {
	store := NewStore(defaults(), nil)
	before := store.Current()

	_, err := store.Apply(context.Background(), Update{MemoryWindow: intPtr(30)})
	require.NoError(t, err)

	// The snapshot taken before the update is unaffected.
	assert.Equal(t, 10, before.MemoryWindow)
	assert.Equal(t, 30, store.Current().MemoryWindow)
}

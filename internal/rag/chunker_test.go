package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextEmpty(t *testing.T) {
	assert.Nil(t, SplitText("", DefaultChunkSize, DefaultChunkOverlap))
}

func TestSplitTextShortInputIsSingleChunk(t *testing.T) {
	text := "a short document"
	chunks := SplitText(text, DefaultChunkSize, DefaultChunkOverlap)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitTextExactSizeIsSingleChunk(t *testing.T) {
	text := strings.Repeat("x", DefaultChunkSize)
	chunks := Split(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitTextChunkCount(t *testing.T) {
	// 2500 runes: offsets 0, 800 and 1600, the last chunk running to the end.
	text := strings.Repeat("a", 2500)
	chunks := Split(text)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 900)
}

func TestSplitTextOverlap(t *testing.T) {
	var sb strings.Builder
	for i := 0; sb.Len() < 2500; i++ {
		sb.WriteString("word")
		sb.WriteByte(byte('a' + i%26))
	}
	text := sb.String()

	chunks := Split(text)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		assert.Equal(t,
			string(prev[len(prev)-DefaultChunkOverlap:]),
			string(cur[:DefaultChunkOverlap]),
			"chunk %d should start with the tail of chunk %d", i, i-1)
	}
}

func TestSplitTextRoundTrip(t *testing.T) {
	for _, length := range []int{1, 999, 1000, 1001, 1010, 1800, 1801, 2500, 5000} {
		text := strings.Repeat("ab", length/2+1)[:length]
		chunks := Split(text)

		rebuilt := chunks[0]
		for i := 1; i < len(chunks); i++ {
			runes := []rune(chunks[i])
			rebuilt += string(runes[DefaultChunkOverlap:])
		}
		require.Equal(t, text, rebuilt, "length %d", length)
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("世界", 1250) // 2500 runes
	chunks := Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, 1000, len([]rune(chunks[0])))
	assert.Equal(t, 900, len([]rune(chunks[2])))
}

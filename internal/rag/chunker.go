// Package rag implements the context-assembly engine: document chunking,
// keyword retrieval, conversation memory windowing and prompt composition.
package rag

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many characters consecutive chunks share.
	DefaultChunkOverlap = 200
)

// SplitText splits text into overlapping windows of size characters with the
// given overlap. Each chunk is text[off:off+size] clamped to the text end and
// the offset advances by size-overlap; splitting stops after the chunk that
// reaches the text end, so concatenating the chunks minus their overlaps
// reconstructs the input exactly. Empty input yields no chunks; input no
// longer than size yields exactly one chunk equal to the whole text.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; ; start += size - overlap {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Split applies the default chunk size and overlap.
func Split(text string) []string {
	return SplitText(text, DefaultChunkSize, DefaultChunkOverlap)
}

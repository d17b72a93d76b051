// Package chunker splits document text into overlapping,
// sentence-boundary-aware chunks for embedding.
package chunker

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits text into overlapping chunks, snapping chunk ends to
// sentence boundaries where possible.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for the chunk to advance
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured chunk size in characters.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into ordered chunks owned by documentID.
//
// Each chunk spans up to chunkSize characters. When a chunk would end
// mid-text, the end is pulled back to just after the nearest sentence
// terminator (".", "!", "?") followed by whitespace, so chunks end on
// sentence boundaries when one exists in range. Consecutive chunks
// overlap by the configured amount. Empty text yields no chunks; text
// shorter than the chunk size yields exactly one chunk.
func (c *Chunker) Chunk(documentID, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	chunks := make([]domain.Chunk, 0, total/(c.chunkSize-c.overlap)+1)

	start := 0
	position := 0

	for start < total {
		end := start + c.chunkSize
		if end >= total {
			end = total
		} else {
			// Pull the end back to the nearest sentence boundary,
			// scanning from the candidate end toward the start.
			for i := end - 2; i > start; i-- {
				if isSentenceEnd(runes[i]) && unicode.IsSpace(runes[i+1]) {
					end = i + 2
					break
				}
			}
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Text:       strings.TrimSpace(string(runes[start:end])),
			Position:   position,
		})
		position++

		// The final chunk consumes the rest of the text.
		if end == total {
			break
		}

		// Advance with overlap; force progress when the overlap would
		// move the start backwards or keep it in place.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// isSentenceEnd reports whether r terminates a sentence.
func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

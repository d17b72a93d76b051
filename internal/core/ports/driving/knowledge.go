package driving

import (
	"context"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// KnowledgeService manages the document lifecycle of a knowledge base
// instance. Documents, chunks, and embeddings are created as a unit
// and removed as a unit.
type KnowledgeService interface {
	// AddDocument chunks the text, embeds every chunk, and commits the
	// document. If id is empty one is generated. On any embedding
	// failure the whole add is rolled back and no partial document is
	// ever visible. Returns the document ID.
	AddDocument(ctx context.Context, text string, meta domain.DocumentMetadata, id string) (string, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document, its chunks, and their
	// embeddings. Safe to retry after a partial failure.
	DeleteDocument(ctx context.Context, id string) error

	// UpdateDocument replaces a document's text and metadata under the
	// same ID. Chunk IDs are NOT preserved: this is delete-then-add,
	// not an in-place patch.
	UpdateDocument(ctx context.Context, id, text string, meta domain.DocumentMetadata) error

	// ListDocuments returns documents keyed by ID, optionally filtered
	// by exact metadata category.
	ListDocuments(ctx context.Context, category string) (map[string]domain.Document, error)

	// Reset clears all documents, chunks, and embeddings.
	Reset(ctx context.Context) error

	// Statistics reports counts and configuration for introspection.
	Statistics(ctx context.Context) (*domain.Statistics, error)
}

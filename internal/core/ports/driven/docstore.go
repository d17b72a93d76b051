package driven

import (
	"context"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// DocumentStore is the single source of truth for which documents and
// chunks exist, and their text content, independent of embeddings.
//
// Implementations must make SaveDocument atomic: the document and its
// chunks become visible together or not at all. DeleteDocument must
// tolerate partially applied prior deletes so a retry converges to
// "fully removed".
type DocumentStore interface {
	// SaveDocument stores a document together with its ordered chunks.
	// This is the visibility commit point for an ingestion.
	SaveDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves a document's chunks in position order.
	// Returns domain.ErrNotFound if the document is absent.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// AllChunks returns every chunk in the store in a deterministic
	// order (documents by ID, chunks by position). This is the scan
	// order for similarity search.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// ListDocuments returns all documents keyed by ID.
	ListDocuments(ctx context.Context) (map[string]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	// Deleting an absent document is a no-op.
	DeleteDocument(ctx context.Context, id string) error

	// CountChunks returns the total number of chunks.
	CountChunks(ctx context.Context) (int, error)

	// Reset removes all documents and chunks, leaving an empty,
	// well-formed store.
	Reset(ctx context.Context) error
}

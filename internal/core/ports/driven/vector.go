package driven

import "context"

// VectorStore owns the chunk-to-vector mapping and its durability.
//
// The invariant is that a vector exists if and only if its chunk is
// reachable from a live document. The knowledge service enforces this
// by writing vectors before committing a document and by deleting
// vectors before removing document metadata.
type VectorStore interface {
	// Add persists the embedding for a chunk.
	Add(ctx context.Context, chunkID string, embedding []float32) error

	// Load retrieves the embedding for a chunk.
	// Returns domain.ErrNotFound if no vector is persisted.
	Load(ctx context.Context, chunkID string) ([]float32, error)

	// Delete removes the persisted vector. Deleting a non-existent
	// chunk ID is a no-op, so document deletion can be retried.
	Delete(ctx context.Context, chunkID string) error

	// Count returns the number of persisted vectors.
	Count(ctx context.Context) (int, error)

	// Reset removes all vectors.
	Reset(ctx context.Context) error
}

package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{vectors: make(map[string][]float32)}
}

// Add stores the embedding for a chunk, replacing any existing one.
func (s *VectorStore) Add(_ context.Context, chunkID string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vectors[chunkID] = append([]float32(nil), vector...)
	return nil
}

// Load retrieves the embedding for a chunk.
func (s *VectorStore) Load(_ context.Context, chunkID string) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vector, ok := s.vectors[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]float32(nil), vector...), nil
}

// Delete removes a chunk's embedding. Deleting an absent vector is a
// no-op.
func (s *VectorStore) Delete(_ context.Context, chunkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.vectors, chunkID)
	return nil
}

// Count returns the number of stored embeddings.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.vectors), nil
}

// Reset removes all stored embeddings.
func (s *VectorStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vectors = make(map[string][]float32)
	return nil
}

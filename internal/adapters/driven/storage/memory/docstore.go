// Package memory provides in-memory store implementations, used by the
// memory storage backend and as fixtures in service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores a document together with its ordered chunks,
// replacing any existing entry with the same ID.
func (s *DocumentStore) SaveDocument(
	_ context.Context, doc *domain.Document, chunks []domain.Chunk,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunks retrieves a document's chunks in position order.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.documents[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.Chunk(nil), s.chunks[documentID]...), nil
}

// AllChunks returns every chunk ordered by document ID, then position.
func (s *DocumentStore) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docIDs := make([]string, 0, len(s.chunks))
	for id := range s.chunks {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	var all []domain.Chunk
	for _, id := range docIDs {
		all = append(all, s.chunks[id]...)
	}
	return all, nil
}

// ListDocuments returns all documents keyed by ID.
func (s *DocumentStore) ListDocuments(_ context.Context) (map[string]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]domain.Document, len(s.documents))
	for id, doc := range s.documents {
		docs[id] = doc
	}
	return docs, nil
}

// DeleteDocument removes a document and its chunks. Deleting an absent
// document is a no-op.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// CountChunks returns the total number of chunks.
func (s *DocumentStore) CountChunks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, chunks := range s.chunks {
		total += len(chunks)
	}
	return total, nil
}

// Reset removes all documents and chunks.
func (s *DocumentStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = make(map[string]domain.Document)
	s.chunks = make(map[string][]domain.Chunk)
	return nil
}

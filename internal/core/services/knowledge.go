package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/medinex-cli/internal/chunker"
	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medinex-cli/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// KnowledgeService manages the document lifecycle. A document, its
// chunks, and their embeddings are created as a unit and removed as a
// unit; no partially embedded document is ever visible.
//
// Mutating operations are serialised through an internal mutex, so a
// single instance is safe for concurrent use within one process. The
// persisted layout is still single-writer across processes.
type KnowledgeService struct {
	mu          sync.RWMutex
	docStore    driven.DocumentStore
	vectorStore driven.VectorStore
	embedder    driven.EmbeddingService
	splitter    *chunker.Chunker
}

// NewKnowledgeService creates a new knowledge service.
func NewKnowledgeService(
	docStore driven.DocumentStore,
	vectorStore driven.VectorStore,
	embedder driven.EmbeddingService,
	splitter *chunker.Chunker,
) *KnowledgeService {
	return &KnowledgeService{
		docStore:    docStore,
		vectorStore: vectorStore,
		embedder:    embedder,
		splitter:    splitter,
	}
}

// AddDocument chunks the text, embeds every chunk in order, and
// commits the document. The document only becomes visible after every
// chunk has been embedded and stored; on any failure the vectors
// already written for this add are deleted and the error is returned.
func (s *KnowledgeService) AddDocument(
	ctx context.Context, text string, meta domain.DocumentMetadata, id string,
) (string, error) {
	if err := meta.Validate(); err != nil {
		return "", fmt.Errorf("document metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	} else if _, err := s.docStore.GetDocument(ctx, id); err == nil {
		return "", fmt.Errorf("document %s: %w", id, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("check document %s: %w", id, err)
	}

	return s.addLocked(ctx, text, meta, id)
}

// addLocked performs the embed-then-commit sequence. Caller holds the
// write lock.
func (s *KnowledgeService) addLocked(
	ctx context.Context, text string, meta domain.DocumentMetadata, id string,
) (string, error) {
	chunks := s.splitter.Chunk(id, text)
	logger.Debug("Chunked document %s into %d chunks", id, len(chunks))

	written := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		vec, err := s.embedder.Embed(ctx, ch.Text)
		if err != nil {
			s.rollback(ctx, written)
			return "", fmt.Errorf("embed chunk %d of document %s: %w", ch.Position, id, err)
		}
		if err := s.vectorStore.Add(ctx, ch.ID, vec); err != nil {
			s.rollback(ctx, written)
			return "", fmt.Errorf("store embedding for chunk %s: %w", ch.ID, err)
		}
		written = append(written, ch.ID)
	}

	doc := &domain.Document{ID: id, Text: text, Metadata: meta}
	if err := s.docStore.SaveDocument(ctx, doc, chunks); err != nil {
		s.rollback(ctx, written)
		return "", fmt.Errorf("commit document %s: %w", id, err)
	}

	logger.Info("Added document %s with %d chunks", id, len(chunks))
	return id, nil
}

// rollback deletes the vectors written during a failed add.
func (s *KnowledgeService) rollback(ctx context.Context, chunkIDs []string) {
	for _, chunkID := range chunkIDs {
		if err := s.vectorStore.Delete(ctx, chunkID); err != nil {
			logger.Warn("Rollback: failed to delete embedding %s: %v", chunkID, err)
		}
	}
	logger.Debug("Rolled back %d embeddings", len(chunkIDs))
}

// GetDocument retrieves a document by ID.
func (s *KnowledgeService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docStore.GetDocument(ctx, id)
}

// DeleteDocument removes a document, its chunks, and their embeddings.
// Embeddings go first so that a retry after a partial failure still
// finds the chunk list and converges to "fully removed".
func (s *KnowledgeService) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(ctx, id)
}

// deleteLocked removes a document. Caller holds the write lock.
func (s *KnowledgeService) deleteLocked(ctx context.Context, id string) error {
	if _, err := s.docStore.GetDocument(ctx, id); err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}

	chunks, err := s.docStore.GetChunks(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load chunks for %s: %w", id, err)
	}

	for _, ch := range chunks {
		if err := s.vectorStore.Delete(ctx, ch.ID); err != nil {
			return fmt.Errorf("delete embedding %s: %w", ch.ID, err)
		}
	}

	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	logger.Info("Deleted document %s (%d chunks)", id, len(chunks))
	return nil
}

// UpdateDocument replaces a document's text and metadata under the
// same ID. This is delete-then-add: the old chunk IDs are discarded
// and fresh ones generated, so anything keyed by the previous chunk
// IDs is invalidated.
func (s *KnowledgeService) UpdateDocument(
	ctx context.Context, id, text string, meta domain.DocumentMetadata,
) error {
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("document metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deleteLocked(ctx, id); err != nil {
		return err
	}

	if _, err := s.addLocked(ctx, text, meta, id); err != nil {
		return fmt.Errorf("re-add document %s: %w", id, err)
	}
	return nil
}

// ListDocuments returns documents keyed by ID, optionally filtered by
// exact metadata category.
func (s *KnowledgeService) ListDocuments(
	ctx context.Context, category string,
) (map[string]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	if category == "" {
		return docs, nil
	}

	filtered := make(map[string]domain.Document)
	for id, doc := range docs {
		if doc.Metadata.Category == category {
			filtered[id] = doc
		}
	}
	return filtered, nil
}

// Reset clears all documents, chunks, and embeddings.
func (s *KnowledgeService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.docStore.Reset(ctx); err != nil {
		return fmt.Errorf("reset document store: %w", err)
	}
	if err := s.vectorStore.Reset(ctx); err != nil {
		return fmt.Errorf("reset vector store: %w", err)
	}

	logger.Info("Knowledge base reset")
	return nil
}

// Statistics reports document, chunk, and embedding counts along with
// the category histogram and chunking configuration.
func (s *KnowledgeService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	totalChunks, err := s.docStore.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	totalEmbeddings, err := s.vectorStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count embeddings: %w", err)
	}

	categories := make(map[string]int)
	for _, doc := range docs {
		if doc.Metadata.Category != "" {
			categories[doc.Metadata.Category]++
		}
	}

	return &domain.Statistics{
		TotalDocuments:  len(docs),
		TotalChunks:     totalChunks,
		TotalEmbeddings: totalEmbeddings,
		Categories:      categories,
		ChunkSize:       s.splitter.ChunkSize(),
		ChunkOverlap:    s.splitter.Overlap(),
	}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medinex-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit caps results when the caller does not set one.
const DefaultSearchLimit = 10

// scoredChunk holds intermediate results before per-document dedup.
type scoredChunk struct {
	chunkID    string
	documentID string
	chunkText  string
	score      float64
}

// SearchService scores every indexed chunk against the query embedding
// and returns the best chunk per document. The scan is linear over all
// chunks; at single-institution knowledge base scale this is fine and
// keeps ranking exact.
type SearchService struct {
	docStore    driven.DocumentStore
	vectorStore driven.VectorStore
	embedder    driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(
	docStore driven.DocumentStore,
	vectorStore driven.VectorStore,
	embedder driven.EmbeddingService,
) *SearchService {
	return &SearchService{
		docStore:    docStore,
		vectorStore: vectorStore,
		embedder:    embedder,
	}
}

// Search performs a similarity search over all indexed chunks.
//
// Results are sorted by descending cosine similarity with ties kept in
// scan order, filtered by opts.MinScore when one is supplied, and
// deduplicated so each document appears at most once (its best-scoring
// chunk wins).
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Similarity Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVec))

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	chunks, err := s.docStore.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	logger.Debug("Scanning %d chunks across %d documents", len(chunks), len(docs))

	scored := make([]scoredChunk, 0, len(chunks))
	for _, ch := range chunks {
		doc, ok := docs[ch.DocumentID]
		if !ok {
			return nil, fmt.Errorf("chunk %s references missing document %s: %w",
				ch.ID, ch.DocumentID, domain.ErrCorruptStore)
		}

		if opts.Category != "" && doc.Metadata.Category != opts.Category {
			continue
		}

		vec, err := s.vectorStore.Load(ctx, ch.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// A reachable chunk without a vector means the store
				// is inconsistent; skipping it would silently degrade
				// ranking, so fail loudly instead.
				return nil, fmt.Errorf("chunk %s of document %s has no embedding: %w",
					ch.ID, ch.DocumentID, domain.ErrCorruptStore)
			}
			return nil, fmt.Errorf("load embedding %s: %w", ch.ID, err)
		}

		scored = append(scored, scoredChunk{
			chunkID:    ch.ID,
			documentID: ch.DocumentID,
			chunkText:  ch.Text,
			score:      cosineSimilarity(queryVec, vec),
		})
	}

	// Descending by score; stable so ties keep scan order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	results := make([]domain.SearchResult, 0, limit)
	emitted := make(map[string]bool)

	for _, sc := range scored {
		if opts.MinScore != nil && sc.score < *opts.MinScore {
			continue
		}
		if emitted[sc.documentID] {
			continue
		}
		emitted[sc.documentID] = true

		results = append(results, domain.SearchResult{
			Document:  docs[sc.documentID],
			Score:     sc.score,
			ChunkText: sc.chunkText,
		})
		if len(results) >= limit {
			break
		}
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}

// cosineSimilarity computes dot(a,b) / (|a|*|b|), defined as 0.0 when
// either vector has zero norm or the dimensions disagree.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medinex-cli/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.RAGService = (*RAGService)(nil)

// RAGService answers questions by retrieving relevant chunks and
// conditioning generation on them. When retrieval finds nothing above
// the relevance floor it falls back to context-free generation; the
// fallback is logged and reported via HasRelevantContext.
type RAGService struct {
	search driving.SearchService
	llm    driven.LLMService
}

// NewRAGService creates a new RAG service.
func NewRAGService(search driving.SearchService, llm driven.LLMService) *RAGService {
	return &RAGService{
		search: search,
		llm:    llm,
	}
}

// Query retrieves context for the question and generates an answer.
//
// Retrieval and store failures are returned as Go errors. Generation
// provider failures are reported in QueryResult.Error instead, so a
// single bad generation does not crash a batch of queries.
func (s *RAGService) Query(
	ctx context.Context, text string, opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	logger.Section("RAG Query")
	logger.Debug("Question: %q", text)

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultRetrievalLimit
	}

	searchOpts := domain.SearchOptions{
		Limit:    limit,
		Category: opts.Category,
	}
	// QueryOptions uses zero to disable the relevance floor.
	if opts.MinScore != 0 {
		searchOpts.MinScore = &opts.MinScore
	}

	results, err := s.search.Search(ctx, text, searchOpts)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	hasContext := len(results) > 0

	var contextBlock string
	if hasContext {
		contextBlock = formatContext(results)
		logger.Debug("Assembled context from %d sources", len(results))
	} else {
		logger.Info("No relevant context found, falling back to context-free generation")
	}

	answer, err := s.llm.Generate(ctx, text, contextBlock, driven.GenerateOptions{
		SystemPrompt: opts.SystemPrompt,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return &domain.QueryResult{
			HasRelevantContext: hasContext,
			Sources:            []domain.Source{},
			Error:              err.Error(),
		}, nil
	}

	out := &domain.QueryResult{
		Response:           answer,
		HasRelevantContext: hasContext,
		Sources:            []domain.Source{},
	}

	if opts.IncludeSources && hasContext {
		out.Sources = buildSources(results)
		out.SourcesCount = len(out.Sources)
		out.Response = answer + "\n\n" + sourcesBlock(results)
	}

	return out, nil
}

// BatchQuery runs Query for each text sequentially. Per-query failures
// of any kind are folded into that query's result so the batch always
// completes.
func (s *RAGService) BatchQuery(
	ctx context.Context, texts []string, opts domain.QueryOptions,
) ([]*domain.QueryResult, error) {
	results := make([]*domain.QueryResult, 0, len(texts))
	for _, text := range texts {
		res, err := s.Query(ctx, text, opts)
		if err != nil {
			res = &domain.QueryResult{
				Sources: []domain.Source{},
				Error:   err.Error(),
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// formatContext renders retrieved chunks as the generation context
// block, one numbered source per chunk.
func formatContext(results []domain.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[Source %d] %s: %s", i+1, sourceLabel(r.Document), r.ChunkText)
	}
	return strings.Join(parts, "\n\n")
}

// sourceLabel picks the display label for a document: the title when
// present, otherwise the provenance source.
func sourceLabel(doc domain.Document) string {
	if doc.Metadata.Title != "" {
		return doc.Metadata.Title
	}
	return doc.Metadata.Source
}

// buildSources converts search results to the citation list returned
// for programmatic use.
func buildSources(results []domain.SearchResult) []domain.Source {
	sources := make([]domain.Source, len(results))
	for i, r := range results {
		sources[i] = domain.Source{
			DocumentID: r.Document.ID,
			Title:      r.Document.Metadata.Title,
			Source:     r.Document.Metadata.Source,
			Score:      r.Score,
			Category:   r.Document.Metadata.Category,
		}
	}
	return sources
}

// sourcesBlock renders the human-readable citation block appended to
// the response when sources are requested.
func sourcesBlock(results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Sources:")
	for i, r := range results {
		meta := r.Document.Metadata
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, sourceLabel(r.Document)))
		if meta.Author != "" {
			b.WriteString(fmt.Sprintf(" (%s)", meta.Author))
		}
		if meta.Title != "" && meta.Source != "" {
			b.WriteString(fmt.Sprintf(" - %s", meta.Source))
		}
		if meta.URL != "" {
			b.WriteString(fmt.Sprintf(" [%s]", meta.URL))
		}
	}
	return b.String()
}

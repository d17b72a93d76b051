package mcp

import (
	"context"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockRAGService is a mock implementation of driving.RAGService.
type mockRAGService struct {
	result   *domain.QueryResult
	err      error
	lastOpts domain.QueryOptions
}

func (m *mockRAGService) Query(
	_ context.Context,
	_ string,
	opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockRAGService) BatchQuery(
	ctx context.Context,
	texts []string,
	opts domain.QueryOptions,
) ([]*domain.QueryResult, error) {
	results := make([]*domain.QueryResult, 0, len(texts))
	for _, text := range texts {
		res, err := m.Query(ctx, text, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	docs  map[string]domain.Document
	stats *domain.Statistics
	err   error
}

func (m *mockKnowledgeService) AddDocument(
	_ context.Context, _ string, _ domain.DocumentMetadata, id string,
) (string, error) {
	return id, m.err
}

func (m *mockKnowledgeService) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockKnowledgeService) DeleteDocument(_ context.Context, _ string) error {
	return m.err
}

func (m *mockKnowledgeService) UpdateDocument(
	_ context.Context, _, _ string, _ domain.DocumentMetadata,
) error {
	return m.err
}

func (m *mockKnowledgeService) ListDocuments(
	_ context.Context, _ string,
) (map[string]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockKnowledgeService) Reset(_ context.Context) error {
	return m.err
}

func (m *mockKnowledgeService) Statistics(_ context.Context) (*domain.Statistics, error) {
	return m.stats, m.err
}

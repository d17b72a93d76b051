package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driving"
)

// mockKnowledgeService records calls and serves canned documents.
type mockKnowledgeService struct {
	docs    map[string]domain.Document
	addedID string
	deleted []string
	reset   bool
}

var _ driving.KnowledgeService = (*mockKnowledgeService)(nil)

func newMockKnowledgeService() *mockKnowledgeService {
	return &mockKnowledgeService{docs: make(map[string]domain.Document), addedID: "generated-id"}
}

func (m *mockKnowledgeService) AddDocument(
	_ context.Context, text string, meta domain.DocumentMetadata, id string,
) (string, error) {
	if err := meta.Validate(); err != nil {
		return "", err
	}
	if id == "" {
		id = m.addedID
	}
	m.docs[id] = domain.Document{ID: id, Text: text, Metadata: meta}
	return id, nil
}

func (m *mockKnowledgeService) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockKnowledgeService) DeleteDocument(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockKnowledgeService) UpdateDocument(
	_ context.Context, id, text string, meta domain.DocumentMetadata,
) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	m.docs[id] = domain.Document{ID: id, Text: text, Metadata: meta}
	return nil
}

func (m *mockKnowledgeService) ListDocuments(
	_ context.Context, category string,
) (map[string]domain.Document, error) {
	out := make(map[string]domain.Document)
	for id, doc := range m.docs {
		if category == "" || doc.Metadata.Category == category {
			out[id] = doc
		}
	}
	return out, nil
}

func (m *mockKnowledgeService) Reset(_ context.Context) error {
	m.docs = make(map[string]domain.Document)
	m.reset = true
	return nil
}

func (m *mockKnowledgeService) Statistics(_ context.Context) (*domain.Statistics, error) {
	return &domain.Statistics{
		TotalDocuments:  len(m.docs),
		TotalChunks:     len(m.docs),
		TotalEmbeddings: len(m.docs),
		Categories:      map[string]int{"medication": len(m.docs)},
		ChunkSize:       1000,
		ChunkOverlap:    200,
	}, nil
}

// mockSearchService returns fixed results.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

var _ driving.SearchService = (*mockSearchService)(nil)

func (m *mockSearchService) Search(
	_ context.Context, _ string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockRAGService echoes the question back.
type mockRAGService struct {
	err      error
	lastOpts domain.QueryOptions
}

var _ driving.RAGService = (*mockRAGService)(nil)

func (m *mockRAGService) Query(
	_ context.Context, text string, opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastOpts = opts
	return &domain.QueryResult{
		Response:           "answer to: " + text,
		HasRelevantContext: true,
		Sources:            []domain.Source{},
	}, nil
}

func (m *mockRAGService) BatchQuery(
	ctx context.Context, texts []string, opts domain.QueryOptions,
) ([]*domain.QueryResult, error) {
	results := make([]*domain.QueryResult, 0, len(texts))
	for _, text := range texts {
		res, err := m.Query(ctx, text, opts)
		if err != nil {
			res = &domain.QueryResult{Error: err.Error()}
		}
		results = append(results, res)
	}
	return results, nil
}

// mockImporterService reports one imported document per call.
type mockImporterService struct {
	lastDir       string
	lastRecursive bool
}

var _ driving.ImporterService = (*mockImporterService)(nil)

func (m *mockImporterService) ImportDirectory(
	_ context.Context, dir string, recursive bool,
) (*driving.ImportReport, error) {
	m.lastDir = dir
	m.lastRecursive = recursive
	return &driving.ImportReport{
		Imported:    1,
		DocumentIDs: []string{"imported-1"},
		Errors: map[string]string{
			dir + "/bad.csv": "no recognised content column",
		},
		Failed: 1,
	}, nil
}

func (m *mockImporterService) ImportFile(_ context.Context, path string) ([]string, error) {
	return nil, fmt.Errorf("unsupported file type %s: %w", path, domain.ErrInvalidInput)
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldKnowledge := knowledgeService
	oldSearch := searchService
	oldRAG := ragService
	oldImporter := importerService

	knowledge := newMockKnowledgeService()
	knowledge.docs["doc-1"] = domain.Document{
		ID:   "doc-1",
		Text: "Aspirin relieves pain.",
		Metadata: domain.DocumentMetadata{
			Source:   "handbook",
			Title:    "Aspirin",
			Category: "medication",
		},
	}

	knowledgeService = knowledge
	searchService = &mockSearchService{results: []domain.SearchResult{
		{
			Document:  knowledge.docs["doc-1"],
			Score:     0.92,
			ChunkText: "Aspirin relieves pain.",
		},
	}}
	ragService = &mockRAGService{}
	importerService = &mockImporterService{}

	return func() {
		knowledgeService = oldKnowledge
		searchService = oldSearch
		ragService = oldRAG
		importerService = oldImporter
	}
}

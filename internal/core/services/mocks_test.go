package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
)

// mockEmbedder returns canned vectors keyed by text. Unknown texts get
// a unit vector so adds succeed by default; failOn triggers a provider
// error for any text containing it.
type mockEmbedder struct {
	vectors map[string][]float32
	failOn  string
	calls   []string
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vectors: make(map[string][]float32)}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, fmt.Errorf("%w: mock failure", domain.ErrEmbeddingProvider)
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM records the last generation request and returns a fixed
// answer, or an error when failing is set.
type mockLLM struct {
	answer      string
	failing     bool
	lastQuery   string
	lastContext string
	lastOpts    driven.GenerateOptions
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(
	_ context.Context, query, contextBlock string, opts driven.GenerateOptions,
) (string, error) {
	m.lastQuery = query
	m.lastContext = contextBlock
	m.lastOpts = opts
	if m.failing {
		return "", fmt.Errorf("%w: mock generation failure", domain.ErrGenerationProvider)
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

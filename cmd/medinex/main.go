// Command medinex is a local medical knowledge base with
// retrieval-augmented question answering.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/medinex-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/medinex-cli/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/medinex-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/medinex-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medinex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/medinex-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/medinex-cli/internal/chunker"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medinex-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	cfg, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	knowledgeDir := cfg.KnowledgeDir
	if knowledgeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		knowledgeDir = filepath.Join(home, ".medinex", "knowledge")
	}

	docStore, vectorStore, closeStores, err := buildStores(cfg, knowledgeDir)
	if err != nil {
		return fmt.Errorf("opening knowledge store: %w", err)
	}
	defer closeStores()

	embedder, err := ai.CreateEmbeddingService(providerSettings(cfg.Embedding))
	if err != nil {
		return fmt.Errorf("configuring embedding provider: %w", err)
	}
	defer embedder.Close()

	llm, err := ai.CreateLLMService(providerSettings(cfg.LLM))
	if err != nil {
		return fmt.Errorf("configuring generation provider: %w", err)
	}
	defer llm.Close()

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	knowledge := services.NewKnowledgeService(docStore, vectorStore, embedder, splitter)
	search := services.NewSearchService(docStore, vectorStore, embedder)
	rag := services.NewRAGService(search, llm)
	importer := services.NewImporterService(knowledge)

	cli.SetKnowledgeService(knowledge)
	cli.SetSearchService(search)
	cli.SetRAGService(rag)
	cli.SetImporterService(importer)
	cli.SetProviderCheck(providerCheck(embedder, llm))
	cli.SetVersion(version)

	return cli.Execute()
}

// providerCheck reports connectivity of the embedding and generation
// providers for the ping command.
func providerCheck(
	embedder driven.EmbeddingService, llm driven.LLMService,
) func(ctx context.Context) []cli.ProviderStatus {
	return func(ctx context.Context) []cli.ProviderStatus {
		return []cli.ProviderStatus{
			{Name: "embedding", Model: embedder.ModelName(), Err: embedder.Ping(ctx)},
			{Name: "llm", Model: llm.ModelName(), Err: llm.Ping(ctx)},
		}
	}
}

// buildStores constructs the document and vector stores for the
// configured storage backend.
func buildStores(
	cfg configfile.Config, knowledgeDir string,
) (driven.DocumentStore, driven.VectorStore, func(), error) {
	switch cfg.Storage.Backend {
	case configfile.BackendFile, "":
		docStore, err := storagefile.NewDocumentStore(knowledgeDir)
		if err != nil {
			return nil, nil, nil, err
		}
		vectorStore, err := storagefile.NewVectorStore(knowledgeDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return docStore, vectorStore, func() {}, nil

	case configfile.BackendSQLite:
		store, err := sqlite.NewStore(knowledgeDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.DocumentStore(), store.VectorStore(), func() {
			store.Close() //nolint:errcheck
		}, nil

	case configfile.BackendMemory:
		return memory.NewDocumentStore(), memory.NewVectorStore(), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// providerSettings converts a config section to factory settings,
// falling back to the conventional environment variable for the key.
func providerSettings(cfg configfile.ProviderConfig) ai.Settings {
	key := cfg.APIKey
	if key == "" {
		switch cfg.Provider {
		case ai.ProviderOpenAI:
			key = os.Getenv("OPENAI_API_KEY")
		case ai.ProviderAnthropic:
			key = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	return ai.Settings{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		APIKey:   key,
	}
}

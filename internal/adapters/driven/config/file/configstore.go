// Package file provides TOML-backed configuration persistence.
//
// Configuration lives at ~/.medinex/config.toml by default. Values
// absent from the file keep their defaults, so a partial config is
// valid.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/medinex-cli/internal/chunker"
	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// Storage backend names accepted in the config file.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the application configuration.
type Config struct {
	// KnowledgeDir is where documents, chunks and embeddings live.
	// Empty means ~/.medinex/knowledge.
	KnowledgeDir string `toml:"knowledge_dir"`

	Storage   StorageConfig   `toml:"storage"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding ProviderConfig  `toml:"embedding"`
	LLM       ProviderConfig  `toml:"llm"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is one of "file", "sqlite" or "memory".
	Backend string `toml:"backend"`
}

// ChunkingConfig controls document splitting.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig controls search behaviour.
type RetrievalConfig struct {
	MinScore float64 `toml:"min_score"`
	Limit    int     `toml:"limit"`
}

// ProviderConfig configures an embedding or LLM provider.
type ProviderConfig struct {
	// Provider is "ollama", "openai" or (LLM only) "anthropic".
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendFile},
		Chunking: ChunkingConfig{
			Size:    chunker.DefaultChunkSize,
			Overlap: chunker.DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			MinScore: domain.DefaultMinScore,
			Limit:    domain.DefaultRetrievalLimit,
		},
		Embedding: ProviderConfig{Provider: "ollama"},
		LLM:       ProviderConfig{Provider: "ollama"},
	}
}

// ConfigStore loads and saves the TOML configuration file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.medinex.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".medinex")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the configuration, applying defaults for missing values.
// A missing file yields the defaults.
func (s *ConfigStore) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save persists the configuration with restricted permissions, since
// it may hold API keys.
func (s *ConfigStore) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Package ai provides factory functions for creating embedding and
// generation provider adapters from configuration.
package ai

import (
	"fmt"

	embedollama "github.com/custodia-labs/medinex-cli/internal/adapters/driven/embedding/ollama"
	embedopenai "github.com/custodia-labs/medinex-cli/internal/adapters/driven/embedding/openai"
	llmanthropic "github.com/custodia-labs/medinex-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/custodia-labs/medinex-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/medinex-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
)

// Provider names accepted in configuration.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Settings configures one provider. The zero value selects a local
// Ollama instance with the adapter's default model.
type Settings struct {
	// Provider is one of "ollama", "openai" or (LLM only) "anthropic".
	Provider string

	// Model is the model name. Empty selects the adapter default.
	Model string

	// BaseURL overrides the provider API base URL.
	BaseURL string

	// APIKey authenticates hosted providers. Ignored by Ollama.
	APIKey string
}

// CreateEmbeddingService creates the configured embedding provider.
func CreateEmbeddingService(settings Settings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case ProviderOllama, "":
		return embedollama.NewEmbeddingService(embedollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case ProviderOpenAI:
		return embedopenai.NewEmbeddingService(embedopenai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", settings.Provider)
	}
}

// CreateLLMService creates the configured generation provider.
func CreateLLMService(settings Settings) (driven.LLMService, error) {
	switch settings.Provider {
	case ProviderOllama, "":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case ProviderOpenAI:
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case ProviderAnthropic:
		return llmanthropic.NewLLMService(llmanthropic.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unknown llm provider %q", settings.Provider)
	}
}

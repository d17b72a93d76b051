package driven

import "context"

// LLMService provides text generation for RAG answers.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Anthropic (Claude)
type LLMService interface {
	// Generate produces an answer to the query. When contextBlock is
	// non-empty the answer must be grounded in it; when empty the
	// model answers from its own knowledge (the fallback path).
	// Failures wrap domain.ErrGenerationProvider.
	Generate(ctx context.Context, query, contextBlock string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// SystemPrompt sets the system instruction. Empty uses the
	// adapter's default medical assistant prompt.
	SystemPrompt string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// All embeddings within one knowledge base must come from the same
// model; vectors from different models are not comparable and mixing
// them silently produces meaningless similarity scores. This is a
// documented precondition, not checked at runtime.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Failures wrap domain.ErrEmbeddingProvider.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

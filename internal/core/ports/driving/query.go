package driving

import (
	"context"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// RAGService answers questions by retrieving relevant context and
// conditioning text generation on it.
type RAGService interface {
	// Query retrieves context for the question and generates an
	// answer. When nothing relevant is found it falls back to
	// context-free generation. Generation provider failures are
	// reported in QueryResult.Error, not as a Go error.
	Query(ctx context.Context, text string, opts domain.QueryOptions) (*domain.QueryResult, error)

	// BatchQuery runs Query for each text sequentially. Each query is
	// independent; one failure does not abort the batch.
	BatchQuery(ctx context.Context, texts []string, opts domain.QueryOptions) ([]*domain.QueryResult, error)
}

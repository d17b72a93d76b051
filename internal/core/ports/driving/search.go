package driving

import (
	"context"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// SearchService provides semantic similarity search over the
// knowledge base.
type SearchService interface {
	// Search embeds the query, scores every indexed chunk by cosine
	// similarity, and returns at most one result per document in
	// descending score order.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}

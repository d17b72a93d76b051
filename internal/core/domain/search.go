package domain

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// Limit is the maximum number of distinct documents to return.
	Limit int

	// Category filters results to documents whose metadata category
	// matches exactly. Empty means no filter.
	Category string

	// MinScore drops results scoring below this value. The filter is
	// applied before per-document deduplication. Nil means no floor:
	// cosine scores span [-1, 1], so even an explicit floor of zero
	// is meaningful and must stay distinguishable from "unset".
	MinScore *float64
}

// SearchResult is a single similarity search hit: the chunk responsible
// for the match plus its owning document, for citation purposes.
type SearchResult struct {
	// Document is the owning document.
	Document Document `json:"document"`

	// Score is the cosine similarity against the query embedding.
	Score float64 `json:"score"`

	// ChunkText is the text of the matching chunk.
	ChunkText string `json:"chunk_text"`
}

// Default values for RAG queries.
const (
	// DefaultMinScore is the relevance floor for retrieved context.
	DefaultMinScore = 0.7

	// DefaultRetrievalLimit is the maximum number of documents
	// retrieved as context for one query.
	DefaultRetrievalLimit = 5
)

// QueryOptions configures a RAG query.
// Use DefaultQueryOptions as the starting point; the zero value
// disables the relevance floor and source reporting.
type QueryOptions struct {
	// Category filters retrieval to a document category.
	Category string

	// MinScore is the relevance floor for retrieved context.
	MinScore float64

	// Limit is the maximum number of context documents.
	Limit int

	// IncludeSources appends a human-readable Sources block to the
	// response and returns the raw source list.
	IncludeSources bool

	// SystemPrompt overrides the generation system prompt.
	SystemPrompt string
}

// DefaultQueryOptions returns the standard RAG query configuration.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		MinScore:       DefaultMinScore,
		Limit:          DefaultRetrievalLimit,
		IncludeSources: true,
	}
}

// Source identifies a document that contributed context to an answer.
type Source struct {
	// DocumentID is the contributing document.
	DocumentID string `json:"document_id"`

	// Title is the document title, if known.
	Title string `json:"title,omitempty"`

	// Source is the provenance label.
	Source string `json:"source"`

	// Score is the similarity score of the best matching chunk.
	Score float64 `json:"score"`

	// Category is the document category, if any.
	Category string `json:"category,omitempty"`
}

// QueryResult is the outcome of one RAG query.
//
// A generation failure is reported in Error rather than as a Go error,
// so one bad generation does not abort a batch of queries.
type QueryResult struct {
	// Response is the generated answer, with the Sources block
	// appended when requested.
	Response string `json:"response"`

	// HasRelevantContext reports whether any retrieved chunk passed
	// the relevance floor.
	HasRelevantContext bool `json:"has_relevant_context"`

	// Sources lists the documents that contributed context.
	// Empty when IncludeSources is false or nothing was retrieved.
	Sources []Source `json:"sources"`

	// SourcesCount is len(Sources).
	SourcesCount int `json:"sources_count"`

	// Error describes a generation provider failure, if one occurred.
	Error string `json:"error,omitempty"`
}

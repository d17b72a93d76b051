package domain

import "time"

// Document is a medical text in the knowledge base.
// The text is immutable after creation; updates replace the
// document wholesale (see KnowledgeService.UpdateDocument).
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// Text is the full document text before chunking.
	Text string `json:"text"`

	// Metadata describes provenance and classification.
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentMetadata describes where a document came from and how
// it is classified. Source is the only required field.
type DocumentMetadata struct {
	// Source is a human-readable provenance label (required).
	Source string `json:"source"`

	// Title is the document title, if known.
	Title string `json:"title,omitempty"`

	// Category is an optional classification used for search filtering.
	Category string `json:"category,omitempty"`

	// Author is the document author, if known.
	Author string `json:"author,omitempty"`

	// CreatedAt is when the source material was created.
	CreatedAt time.Time `json:"created_at,omitzero"`

	// URL is the original location, if any.
	URL string `json:"url,omitempty"`

	// Keywords are free-form topic tags.
	Keywords []string `json:"keywords,omitempty"`

	// CustomFields holds genuinely unstructured extensions.
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

// Validate checks the metadata invariants.
func (m DocumentMetadata) Validate() error {
	if m.Source == "" {
		return ErrInvalidInput
	}
	return nil
}

// Chunk is a bounded, sentence-boundary-snapped substring of a
// document's text. It is the unit of embedding and retrieval and is
// never shared across documents.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links to the owning Document.
	DocumentID string `json:"document_id"`

	// Text is the trimmed chunk text.
	Text string `json:"text"`

	// Position is the ordinal position within the document.
	Position int `json:"position"`
}

// Statistics summarises the state of a knowledge base instance.
type Statistics struct {
	// TotalDocuments is the number of live documents.
	TotalDocuments int `json:"total_documents"`

	// TotalChunks is the number of chunks across all documents.
	TotalChunks int `json:"total_chunks"`

	// TotalEmbeddings is the number of persisted vectors.
	// Equal to TotalChunks in a consistent store.
	TotalEmbeddings int `json:"total_embeddings"`

	// Categories maps each category to its document count.
	Categories map[string]int `json:"categories"`

	// ChunkSize is the configured chunk size in characters.
	ChunkSize int `json:"chunk_size"`

	// ChunkOverlap is the configured overlap in characters.
	ChunkOverlap int `json:"chunk_overlap"`
}

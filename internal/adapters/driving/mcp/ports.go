package mcp

import (
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides similarity search over the knowledge base.
	Search driving.SearchService

	// RAG answers questions grounded in retrieved context.
	RAG driving.RAGService

	// Knowledge exposes stored documents and statistics. Optional;
	// the document resources are unavailable without it.
	Knowledge driving.KnowledgeService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}

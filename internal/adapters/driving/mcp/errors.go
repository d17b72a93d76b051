// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the MediNex knowledge base. It exposes similarity search and
// retrieval-augmented question answering as tools, and stored documents
// as resources, to MCP-compatible AI assistants.
package mcp

import "errors"

var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingRAGService is returned when the RAG query service is not provided.
	ErrMissingRAGService = errors.New("mcp: rag service is required")
)

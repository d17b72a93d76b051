// Package domain defines the core business entities for the MediNex
// knowledge base.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A medical text with provenance metadata
//   - Chunk: The unit of embedding and retrieval within a document
//   - SearchResult: A retrieved chunk with its owning document and score
//   - QueryResult: A generated answer with its supporting sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

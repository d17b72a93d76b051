// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the knowledge base to function:
//
//   - DocumentStore: Document and chunk persistence
//   - VectorStore: Per-chunk embedding persistence
//   - EmbeddingService: Generates vector embeddings
//
// # Optional Interfaces
//
//   - LLMService: Text generation. Without it, RAG queries are disabled
//     but ingestion and search still work.
//   - ConfigStore: Application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

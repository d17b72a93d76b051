package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document or chunk does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a document with the same ID already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptStore indicates persisted metadata is unreadable or
	// inconsistent, for example a chunk referenced by a live document
	// whose embedding is missing. Operations must fail rather than
	// silently skip the offending chunk.
	ErrCorruptStore = errors.New("corrupt store")

	// ErrEmbeddingProvider indicates the embedding provider failed
	// (network, auth, quota). Document ingestion is rolled back when
	// this occurs mid-add.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrGenerationProvider indicates the text generation provider failed.
	ErrGenerationProvider = errors.New("generation provider failure")
)

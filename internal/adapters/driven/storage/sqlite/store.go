// Package sqlite provides a single-database SQLite implementation of
// the document and vector store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. One database
// connection backs both stores, so a knowledge base is a single
// portable file.
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. All operations are thread-safe through
// SQLite's database-level locking in WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/medinex-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed knowledge base. It exposes the document and
// vector store interfaces through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the knowledge base database under
// knowledgeDir and applies pending migrations.
func NewStore(knowledgeDir string) (*Store, error) {
	if err := os.MkdirAll(knowledgeDir, 0700); err != nil {
		return nil, fmt.Errorf("creating knowledge directory: %w", err)
	}

	dbPath := filepath.Join(knowledgeDir, "knowledge.db")

	// WAL mode for better concurrency between readers and the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore backed by this database.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorStore returns a VectorStore backed by this database.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores a document and its chunks in one transaction,
// replacing any existing entry with the same ID.
func (d *documentStore) SaveDocument(
	ctx context.Context, doc *domain.Document, chunks []domain.Chunk,
) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, text, metadata) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, metadata = excluded.metadata
	`, doc.ID, doc.Text, string(metadataJSON)); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_id, text, position) VALUES (?, ?, ?, ?)
		`, chunk.ID, chunk.DocumentID, chunk.Text, chunk.Position); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (d *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx,
		"SELECT id, text, metadata FROM documents WHERE id = ?", id)

	var doc domain.Document
	var metadataJSON string
	if err := row.Scan(&doc.ID, &doc.Text, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %v: %w", err, domain.ErrCorruptStore)
	}
	return &doc, nil
}

// GetChunks retrieves a document's chunks in position order.
func (d *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if _, err := d.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, document_id, text, position FROM chunks
		WHERE document_id = ? ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// AllChunks returns every chunk ordered by document ID, then position.
func (d *documentStore) AllChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, document_id, text, position FROM chunks
		ORDER BY document_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// ListDocuments returns all documents keyed by ID.
func (d *documentStore) ListDocuments(ctx context.Context) (map[string]domain.Document, error) {
	rows, err := d.store.db.QueryContext(ctx, "SELECT id, text, metadata FROM documents")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[string]domain.Document)
	for rows.Next() {
		var doc domain.Document
		var metadataJSON string
		if err := rows.Scan(&doc.ID, &doc.Text, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %v: %w", err, domain.ErrCorruptStore)
		}
		docs[doc.ID] = doc
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document; its chunks go with it through the
// foreign key cascade. Deleting an absent document is a no-op.
func (d *documentStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := d.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// CountChunks returns the total number of chunks.
func (d *documentStore) CountChunks(ctx context.Context) (int, error) {
	var count int
	row := d.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Reset removes all documents and chunks.
func (d *documentStore) Reset(ctx context.Context) error {
	if _, err := d.store.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("resetting documents: %w", err)
	}
	return nil
}

// scanChunks collects chunks from a query result.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Text, &chunk.Position); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Add stores the embedding for a chunk, replacing any existing one.
func (v *vectorStore) Add(ctx context.Context, chunkID string, vector []float32) error {
	if _, err := v.store.db.ExecContext(ctx, `
		INSERT INTO embeddings (chunk_id, vector) VALUES (?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET vector = excluded.vector
	`, chunkID, float32SliceToBytes(vector)); err != nil {
		return fmt.Errorf("saving embedding: %w", err)
	}
	return nil
}

// Load retrieves the embedding for a chunk.
func (v *vectorStore) Load(ctx context.Context, chunkID string) ([]float32, error) {
	var blob []byte
	row := v.store.db.QueryRowContext(ctx,
		"SELECT vector FROM embeddings WHERE chunk_id = ?", chunkID)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning embedding: %w", err)
	}
	return bytesToFloat32Slice(blob), nil
}

// Delete removes a chunk's embedding. Deleting an absent vector is a
// no-op.
func (v *vectorStore) Delete(ctx context.Context, chunkID string) error {
	if _, err := v.store.db.ExecContext(ctx,
		"DELETE FROM embeddings WHERE chunk_id = ?", chunkID); err != nil {
		return fmt.Errorf("deleting embedding: %w", err)
	}
	return nil
}

// Count returns the number of stored embeddings.
func (v *vectorStore) Count(ctx context.Context) (int, error) {
	var count int
	row := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return count, nil
}

// Reset removes all stored embeddings.
func (v *vectorStore) Reset(ctx context.Context) error {
	if _, err := v.store.db.ExecContext(ctx, "DELETE FROM embeddings"); err != nil {
		return fmt.Errorf("resetting embeddings: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

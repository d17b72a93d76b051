package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// documentsFile is the name of the document metadata index.
const documentsFile = "documents.json"

// chunkRecord is the persisted form of a document's chunk list.
type chunkRecord struct {
	DocumentID string            `json:"document_id"`
	ChunkIDs   []string          `json:"chunk_ids"`
	ChunkTexts map[string]string `json:"chunk_texts"`
}

// DocumentStore is a file-backed implementation of driven.DocumentStore.
// The full metadata set is loaded at construction and kept in memory;
// every mutation rewrites the affected files atomically.
type DocumentStore struct {
	mu          sync.RWMutex
	metadataDir string
	documents   map[string]domain.Document
	chunks      map[string][]domain.Chunk
}

// NewDocumentStore opens (or initialises) the document store under
// knowledgeDir/metadata. Unreadable metadata fails with
// domain.ErrCorruptStore rather than being silently dropped.
func NewDocumentStore(knowledgeDir string) (*DocumentStore, error) {
	metadataDir := filepath.Join(knowledgeDir, "metadata")
	if err := os.MkdirAll(metadataDir, 0700); err != nil {
		return nil, fmt.Errorf("create metadata directory: %w", err)
	}

	s := &DocumentStore{
		metadataDir: metadataDir,
		documents:   make(map[string]domain.Document),
		chunks:      make(map[string][]domain.Chunk),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads documents.json and every per-document chunk file.
func (s *DocumentStore) load() error {
	indexPath := filepath.Join(s.metadataDir, documentsFile)

	data, err := os.ReadFile(indexPath)
	if os.IsNotExist(err) {
		return writeFileAtomic(indexPath, []byte("{}"))
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", documentsFile, err)
	}

	if err := json.Unmarshal(data, &s.documents); err != nil {
		return fmt.Errorf("parse %s: %v: %w", documentsFile, err, domain.ErrCorruptStore)
	}

	for id := range s.documents {
		record, err := s.readChunkRecord(id)
		if os.IsNotExist(err) {
			// Residue of an interrupted delete: the document entry
			// survives with no chunks and a retry will remove it.
			continue
		}
		if err != nil {
			return err
		}
		s.chunks[id] = recordToChunks(record)
	}
	return nil
}

// readChunkRecord reads and validates one {doc_id}_chunks.json file.
func (s *DocumentStore) readChunkRecord(documentID string) (*chunkRecord, error) {
	path := filepath.Join(s.metadataDir, documentID+"_chunks.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record chunkRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse chunks for %s: %v: %w", documentID, err, domain.ErrCorruptStore)
	}

	seen := make(map[string]bool, len(record.ChunkIDs))
	for _, chunkID := range record.ChunkIDs {
		if seen[chunkID] {
			return nil, fmt.Errorf("document %s lists chunk %s twice: %w",
				documentID, chunkID, domain.ErrCorruptStore)
		}
		seen[chunkID] = true
	}
	return &record, nil
}

// recordToChunks rebuilds ordered chunks from a persisted record.
func recordToChunks(record *chunkRecord) []domain.Chunk {
	chunks := make([]domain.Chunk, len(record.ChunkIDs))
	for i, chunkID := range record.ChunkIDs {
		chunks[i] = domain.Chunk{
			ID:         chunkID,
			DocumentID: record.DocumentID,
			Text:       record.ChunkTexts[chunkID],
			Position:   i,
		}
	}
	return chunks
}

// SaveDocument stores a document together with its ordered chunks.
// The chunk file is written first; updating documents.json is the
// visibility commit point.
func (s *DocumentStore) SaveDocument(
	_ context.Context, doc *domain.Document, chunks []domain.Chunk,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := chunkRecord{
		DocumentID: doc.ID,
		ChunkIDs:   make([]string, len(chunks)),
		ChunkTexts: make(map[string]string, len(chunks)),
	}
	for i, ch := range chunks {
		record.ChunkIDs[i] = ch.ID
		record.ChunkTexts[ch.ID] = ch.Text
	}

	if err := s.writeJSON(doc.ID+"_chunks.json", record); err != nil {
		return fmt.Errorf("write chunks for %s: %w", doc.ID, err)
	}

	prevDoc, existed := s.documents[doc.ID]
	prevChunks := s.chunks[doc.ID]

	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = append([]domain.Chunk(nil), chunks...)

	if err := s.writeJSON(documentsFile, s.documents); err != nil {
		if existed {
			s.documents[doc.ID] = prevDoc
			s.chunks[doc.ID] = prevChunks
		} else {
			delete(s.documents, doc.ID)
			delete(s.chunks, doc.ID)
			// The document never became visible, so its chunk file
			// must not outlive the failed save.
			os.Remove(filepath.Join(s.metadataDir, doc.ID+"_chunks.json"))
		}
		return fmt.Errorf("write %s: %w", documentsFile, err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunks retrieves a document's chunks in position order.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.documents[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.Chunk(nil), s.chunks[documentID]...), nil
}

// AllChunks returns every chunk ordered by document ID, then position.
func (s *DocumentStore) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docIDs := make([]string, 0, len(s.chunks))
	for id := range s.chunks {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	var all []domain.Chunk
	for _, id := range docIDs {
		all = append(all, s.chunks[id]...)
	}
	return all, nil
}

// ListDocuments returns all documents keyed by ID.
func (s *DocumentStore) ListDocuments(_ context.Context) (map[string]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]domain.Document, len(s.documents))
	for id, doc := range s.documents {
		docs[id] = doc
	}
	return docs, nil
}

// DeleteDocument removes a document and its chunks. The chunk file
// goes first so that an interrupted delete leaves the document entry
// behind for a retry, never an orphaned chunk file.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunksPath := filepath.Join(s.metadataDir, id+"_chunks.json")
	if err := os.Remove(chunksPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove chunks for %s: %w", id, err)
	}
	delete(s.chunks, id)

	if _, ok := s.documents[id]; !ok {
		return nil
	}
	delete(s.documents, id)

	if err := s.writeJSON(documentsFile, s.documents); err != nil {
		return fmt.Errorf("write %s: %w", documentsFile, err)
	}
	return nil
}

// CountChunks returns the total number of chunks.
func (s *DocumentStore) CountChunks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, chunks := range s.chunks {
		total += len(chunks)
	}
	return total, nil
}

// Reset removes all documents and chunks.
func (s *DocumentStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.metadataDir)
	if err != nil {
		return fmt.Errorf("read metadata directory: %w", err)
	}
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), "_chunks.json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.metadataDir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}

	s.documents = make(map[string]domain.Document)
	s.chunks = make(map[string][]domain.Chunk)

	if err := s.writeJSON(documentsFile, s.documents); err != nil {
		return fmt.Errorf("write %s: %w", documentsFile, err)
	}
	return nil
}

// writeJSON marshals v and writes it atomically under the metadata dir.
func (s *DocumentStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.metadataDir, name), data)
}

// writeFileAtomic writes data via a temp file and rename so readers
// never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

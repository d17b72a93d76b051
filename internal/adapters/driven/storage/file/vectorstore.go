package file

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
	"github.com/custodia-labs/medinex-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// vecExtension is the file suffix for stored embedding vectors.
const vecExtension = ".vec"

// VectorStore persists one embedding vector per file under
// knowledgeDir/embeddings. Each file holds a little-endian uint32
// element count followed by the IEEE 754 bits of each float32.
type VectorStore struct {
	mu  sync.RWMutex
	dir string
}

// NewVectorStore opens (or initialises) the vector store.
func NewVectorStore(knowledgeDir string) (*VectorStore, error) {
	dir := filepath.Join(knowledgeDir, "embeddings")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create embeddings directory: %w", err)
	}
	return &VectorStore{dir: dir}, nil
}

// Add stores the embedding for a chunk, replacing any existing one.
func (s *VectorStore) Add(_ context.Context, chunkID string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make([]byte, 4+4*len(vector))
	binary.LittleEndian.PutUint32(data[0:4], uint32(len(vector)))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(data[4+i*4:], math.Float32bits(v))
	}

	if err := writeFileAtomic(s.path(chunkID), data); err != nil {
		return fmt.Errorf("write vector for %s: %w", chunkID, err)
	}
	return nil
}

// Load retrieves the embedding for a chunk.
func (s *VectorStore) Load(_ context.Context, chunkID string) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(chunkID))
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read vector for %s: %w", chunkID, err)
	}

	if len(data) < 4 {
		return nil, fmt.Errorf("vector file for %s truncated: %w", chunkID, domain.ErrCorruptStore)
	}
	count := int(binary.LittleEndian.Uint32(data[0:4]))
	if len(data) != 4+4*count {
		return nil, fmt.Errorf("vector file for %s has %d bytes, want %d: %w",
			chunkID, len(data), 4+4*count, domain.ErrCorruptStore)
	}

	vector := make([]float32, count)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+i*4:]))
	}
	return vector, nil
}

// Delete removes a chunk's embedding. Deleting an absent vector is a
// no-op.
func (s *VectorStore) Delete(_ context.Context, chunkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(chunkID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove vector for %s: %w", chunkID, err)
	}
	return nil
}

// Count returns the number of stored embeddings.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read embeddings directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), vecExtension) {
			count++
		}
	}
	return count, nil
}

// Reset removes all stored embeddings.
func (s *VectorStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read embeddings directory: %w", err)
	}
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), vecExtension) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *VectorStore) path(chunkID string) string {
	return filepath.Join(s.dir, chunkID+vecExtension)
}

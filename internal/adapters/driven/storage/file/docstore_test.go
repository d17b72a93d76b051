package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

func testDocument(id string) *domain.Document {
	return &domain.Document{
		ID:   id,
		Text: "Aspirin is used to reduce fever and relieve mild pain.",
		Metadata: domain.DocumentMetadata{
			Source:   "pharmacology-handbook",
			Title:    "Aspirin",
			Category: "medication",
		},
	}
}

func testChunks(documentID string, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         documentID + "-chunk-" + string(rune('a'+i)),
			DocumentID: documentID,
			Text:       text,
			Position:   i,
		}
	}
	return chunks
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	doc := testDocument("doc-1")
	chunks := testChunks("doc-1", "first chunk", "second chunk")

	require.NoError(t, store.SaveDocument(ctx, doc, chunks))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Text, got.Text)
	assert.Equal(t, "Aspirin", got.Metadata.Title)

	gotChunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, gotChunks, 2)
	assert.Equal(t, "first chunk", gotChunks[0].Text)
	assert.Equal(t, 0, gotChunks[0].Position)
	assert.Equal(t, "second chunk", gotChunks[1].Text)
	assert.Equal(t, 1, gotChunks[1].Position)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetChunks(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewDocumentStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "alpha", "beta")))

	reopened, err := NewDocumentStore(dir)
	require.NoError(t, err)

	got, err := reopened.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "pharmacology-handbook", got.Metadata.Source)

	chunks, err := reopened.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "alpha", chunks[0].Text)
	assert.Equal(t, "beta", chunks[1].Text)
}

func TestDocumentStore_Delete(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "only chunk")))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.DeleteDocument(ctx, "doc-1"))
}

func TestDocumentStore_AllChunksOrdered(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-b"),
		testChunks("doc-b", "b1", "b2")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-a"),
		testChunks("doc-a", "a1")))

	all, err := store.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a1", all[0].Text)
	assert.Equal(t, "b1", all[1].Text)
	assert.Equal(t, "b2", all[2].Text)
}

func TestDocumentStore_ListAndCount(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "one", "two", "three")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2"),
		testChunks("doc-2", "four")))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestDocumentStore_Reset(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "one")))

	require.NoError(t, store.Reset(ctx))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDocumentStore_CorruptIndex(t *testing.T) {
	dir := t.TempDir()
	metadataDir := filepath.Join(dir, "metadata")
	require.NoError(t, os.MkdirAll(metadataDir, 0700))
	require.NoError(t, os.WriteFile(
		filepath.Join(metadataDir, "documents.json"), []byte("{not json"), 0600))

	_, err := NewDocumentStore(dir)
	assert.ErrorIs(t, err, domain.ErrCorruptStore)
}

func TestDocumentStore_CorruptChunkFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewDocumentStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "one")))

	chunksPath := filepath.Join(dir, "metadata", "doc-1_chunks.json")
	require.NoError(t, os.WriteFile(chunksPath, []byte("[broken"), 0600))

	_, err = NewDocumentStore(dir)
	assert.ErrorIs(t, err, domain.ErrCorruptStore)
}

func TestDocumentStore_FailedSaveLeavesNoChunkFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewDocumentStore(dir)
	require.NoError(t, err)

	// Replace the index with a directory so the atomic rename in the
	// documents.json write fails after the chunk file already landed.
	indexPath := filepath.Join(dir, "metadata", documentsFile)
	require.NoError(t, os.Remove(indexPath))
	require.NoError(t, os.Mkdir(indexPath, 0700))

	err = store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "one"))
	require.Error(t, err)

	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunksPath := filepath.Join(dir, "metadata", "doc-1_chunks.json")
	_, err = os.Stat(chunksPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDocumentStore_FailedSaveKeepsPreviousDocument(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewDocumentStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "old")))

	indexPath := filepath.Join(dir, "metadata", documentsFile)
	require.NoError(t, os.Remove(indexPath))
	require.NoError(t, os.Mkdir(indexPath, 0700))

	updated := testDocument("doc-1")
	updated.Text = "Updated text."
	err = store.SaveDocument(ctx, updated, testChunks("doc-1", "new"))
	require.Error(t, err)

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, testDocument("doc-1").Text, got.Text)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "old", chunks[0].Text)
}

func TestDocumentStore_SaveOverwritesExisting(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1"),
		testChunks("doc-1", "old")))

	updated := testDocument("doc-1")
	updated.Text = "Updated text."
	require.NoError(t, store.SaveDocument(ctx, updated,
		testChunks("doc-1", "new one", "new two")))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Updated text.", got.Text)

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "new one", chunks[0].Text)
}

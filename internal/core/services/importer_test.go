package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medinex-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medinex-cli/internal/chunker"
	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

func newImporterFixture() (*ImporterService, *KnowledgeService) {
	knowledge := NewKnowledgeService(
		memory.NewDocumentStore(), memory.NewVectorStore(), newMockEmbedder(), chunker.New())
	return NewImporterService(knowledge), knowledge
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func findBySource(t *testing.T, docs map[string]domain.Document, source string) domain.Document {
	t.Helper()
	for _, doc := range docs {
		if doc.Metadata.Source == source {
			return doc
		}
	}
	t.Fatalf("no document with source %q", source)
	return domain.Document{}
}

func TestImportFile_Markdown(t *testing.T) {
	importer, knowledge := newImporterFixture()
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "aspirin.md",
		"# Aspirin Overview\n\nAuthor: Dr. Smith\nKeywords: nsaid, analgesic\n\nAspirin relieves pain.")

	ids, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	doc, err := knowledge.GetDocument(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Aspirin Overview", doc.Metadata.Title)
	assert.Equal(t, "Dr. Smith", doc.Metadata.Author)
	assert.Equal(t, []string{"nsaid", "analgesic"}, doc.Metadata.Keywords)
	assert.Equal(t, "File Import: aspirin.md", doc.Metadata.Source)
}

func TestImportFile_PlainTextTitleFromFirstLine(t *testing.T) {
	importer, knowledge := newImporterFixture()
	ctx := context.Background()

	path := writeFile(t, t.TempDir(), "note.txt", "Dosage guidance\n\nTake with food.")

	ids, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	doc, err := knowledge.GetDocument(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Dosage guidance", doc.Metadata.Title)
}

func TestImportFile_CSV(t *testing.T) {
	importer, knowledge := newImporterFixture()
	ctx := context.Background()

	csv := "title,category,content,icd10\n" +
		"Aspirin,medication,Aspirin relieves pain.,N02BA01\n" +
		"Diabetes,condition,Type 2 diabetes is chronic.,E11\n"
	path := writeFile(t, t.TempDir(), "docs.csv", csv)

	ids, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	docs, err := knowledge.ListDocuments(ctx, "medication")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	for _, doc := range docs {
		assert.Equal(t, "Aspirin", doc.Metadata.Title)
		assert.Equal(t, "Aspirin relieves pain.", doc.Text)
		assert.Equal(t, "N02BA01", doc.Metadata.CustomFields["icd10"])
	}
}

func TestImportFile_CSVWithoutContentColumn(t *testing.T) {
	importer, _ := newImporterFixture()

	path := writeFile(t, t.TempDir(), "bad.csv", "a,b\n1,2\n")

	_, err := importer.ImportFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportFile_JSONArray(t *testing.T) {
	importer, knowledge := newImporterFixture()
	ctx := context.Background()

	jsonDoc := `[
		{"content": "Aspirin relieves pain.", "title": "Aspirin", "category": "medication"},
		{"text": "Insulin regulates glucose.", "title": "Insulin", "tags": "hormone, diabetes"}
	]`
	path := writeFile(t, t.TempDir(), "docs.json", jsonDoc)

	ids, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	docs, err := knowledge.ListDocuments(ctx, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var insulin *domain.Document
	for _, doc := range docs {
		if doc.Metadata.Title == "Insulin" {
			d := doc
			insulin = &d
		}
	}
	require.NotNil(t, insulin)
	assert.Equal(t, "Insulin regulates glucose.", insulin.Text)
	assert.Equal(t, []string{"hormone", "diabetes"}, insulin.Metadata.Keywords)
}

func TestImportFile_JSONSingleObject(t *testing.T) {
	importer, _ := newImporterFixture()

	path := writeFile(t, t.TempDir(), "doc.json",
		`{"content": "Single document.", "title": "One"}`)

	ids, err := importer.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestImportFile_UnsupportedExtension(t *testing.T) {
	importer, _ := newImporterFixture()

	path := writeFile(t, t.TempDir(), "image.png", "not text")

	_, err := importer.ImportFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportDirectory_CollectsPerFileErrors(t *testing.T) {
	importer, _ := newImporterFixture()
	dir := t.TempDir()

	writeFile(t, dir, "good.txt", "A good document.")
	badPath := writeFile(t, dir, "bad.csv", "a,b,c\n1,2,3\n")
	writeFile(t, dir, "ignored.png", "binary")

	report, err := importer.ImportDirectory(context.Background(), dir, false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Contains(t, report.Errors, badPath)
	assert.Len(t, report.DocumentIDs, 1)
}

func TestImportDirectory_Recursive(t *testing.T) {
	importer, _ := newImporterFixture()
	dir := t.TempDir()

	subdir := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(subdir, 0700))
	writeFile(t, dir, "top.txt", "Top level document.")
	writeFile(t, subdir, "deep.txt", "Nested document.")

	flat, err := importer.ImportDirectory(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, flat.Imported)

	recursive, err := importer.ImportDirectory(context.Background(), dir, true)
	require.NoError(t, err)
	assert.Equal(t, 2, recursive.Imported)
}

func TestImportDirectory_NotADirectory(t *testing.T) {
	importer, _ := newImporterFixture()

	path := writeFile(t, t.TempDir(), "file.txt", "text")

	_, err := importer.ImportDirectory(context.Background(), path, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

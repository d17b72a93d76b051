package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

func TestAddCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { addSource = "" }()

	out, err := executeCommand(t, "add", "Ibuprofen is an NSAID.", "--source", "handbook")
	require.NoError(t, err)
	assert.Contains(t, out, "Added document generated-id")
}

func TestAddCommand_ExplicitID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		addID = ""
		addSource = ""
		addTitle = ""
	}()

	knowledge := newMockKnowledgeService()
	knowledgeService = knowledge

	out, err := executeCommand(t, "add", "Ibuprofen is an NSAID.",
		"--id", "nsaid-1", "--source", "handbook", "--title", "Ibuprofen")
	require.NoError(t, err)
	assert.Contains(t, out, "Added document nsaid-1")

	doc := knowledge.docs["nsaid-1"]
	assert.Equal(t, "Ibuprofen", doc.Metadata.Title)
}

func TestAddCommand_MissingSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "add", "some text")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "get", "doc-1")
	require.NoError(t, err)

	assert.Contains(t, out, "Document: doc-1")
	assert.Contains(t, out, "Source:   handbook")
	assert.Contains(t, out, "Aspirin relieves pain.")
}

func TestGetCommand_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "get", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "Title:    Aspirin")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestListCommand_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	knowledgeService = newMockKnowledgeService()

	out, err := executeCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestDeleteCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "delete", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted document doc-1")
}

func TestDeleteCommand_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "delete", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { updateSource = "" }()

	knowledge := newMockKnowledgeService()
	knowledge.docs["doc-1"] = domain.Document{ID: "doc-1", Text: "old"}
	knowledgeService = knowledge

	out, err := executeCommand(t, "update", "doc-1", "new text", "--source", "revised handbook")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated document doc-1")

	doc := knowledge.docs["doc-1"]
	assert.Equal(t, "new text", doc.Text)
	assert.Equal(t, "revised handbook", doc.Metadata.Source)
}

func TestUpdateCommand_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { updateSource = "" }()

	_, err := executeCommand(t, "update", "missing", "text", "--source", "handbook")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCommands_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	knowledgeService = nil

	for _, args := range [][]string{
		{"add", "text"},
		{"get", "doc-1"},
		{"list"},
		{"delete", "doc-1"},
		{"update", "doc-1", "text"},
	} {
		_, err := executeCommand(t, args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "knowledge service not configured")
	}
}

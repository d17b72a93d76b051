package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCommand_Table(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "search", "pain relief")
	require.NoError(t, err)

	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Aspirin (0.92)")
	assert.Contains(t, out, "Source: handbook")
	assert.Contains(t, out, "Aspirin relieves pain.")
}

func TestSearchCommand_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchJSON = false }()

	out, err := executeCommand(t, "search", "pain relief", "--json")
	require.NoError(t, err)

	assert.Contains(t, out, `"chunk_text": "Aspirin relieves pain."`)
	assert.Contains(t, out, `"score": 0.92`)
}

func TestSearchCommand_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	searchService = &mockSearchService{}

	out, err := executeCommand(t, "search", "unrelated topic")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCommand_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	searchService = &mockSearchService{err: domain.ErrCorruptStore}

	_, err := executeCommand(t, "search", "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptStore)
}

func TestSearchCommand_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	searchService = nil

	_, err := executeCommand(t, "search", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCommand_MinScoreOmittedMeansNoFloor(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	search := &mockSearchService{}
	searchService = search

	_, err := executeCommand(t, "search", "anything")
	require.NoError(t, err)
	assert.Nil(t, search.lastOpts.MinScore)
}

func TestSearchCommand_ExplicitMinScoreZero(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		searchMinScore = 0
		searchCmd.Flags().Lookup("min-score").Changed = false
	}()

	search := &mockSearchService{}
	searchService = search

	_, err := executeCommand(t, "search", "anything", "--min-score", "0")
	require.NoError(t, err)
	require.NotNil(t, search.lastOpts.MinScore)
	assert.InDelta(t, 0.0, *search.lastOpts.MinScore, 1e-9)
}

func TestSearchCommand_Flags(t *testing.T) {
	assert.NotNil(t, searchCmd.Flags().Lookup("limit"))
	assert.NotNil(t, searchCmd.Flags().Lookup("category"))
	assert.NotNil(t, searchCmd.Flags().Lookup("min-score"))
	assert.NotNil(t, searchCmd.Flags().Lookup("json"))

	assert.Equal(t, "10", searchCmd.Flags().Lookup("limit").DefValue)
}

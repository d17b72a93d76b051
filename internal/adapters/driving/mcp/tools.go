package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string   `json:"query" jsonschema:"the search query to find medical documents"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Category string   `json:"category,omitempty" jsonschema:"restrict results to a document category"`
	MinScore *float64 `json:"min_score,omitempty" jsonschema:"minimum similarity score for results (omit to disable the floor)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title,omitempty"`
	Source     string  `json:"source"`
	Category   string  `json:"category,omitempty"`
	Score      float64 `json:"score"`
	ChunkText  string  `json:"chunk_text,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the medical question to answer"`
	Category string `json:"category,omitempty" jsonschema:"restrict retrieval to a document category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of source documents (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer             string          `json:"answer"`
	HasRelevantContext bool            `json:"has_relevant_context"`
	Sources            []domain.Source `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the medical knowledge base by similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a medical question grounded in the knowledge base",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{
		Limit:    limit,
		Category: input.Category,
		MinScore: input.MinScore,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			Title:      results[i].Document.Metadata.Title,
			Source:     results[i].Document.Metadata.Source,
			Category:   results[i].Document.Metadata.Category,
			Score:      results[i].Score,
			ChunkText:  results[i].ChunkText,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.DefaultQueryOptions()
	opts.Category = input.Category
	if input.Limit > 0 {
		opts.Limit = input.Limit
	}

	result, err := s.ports.RAG.Query(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}
	if result.Error != "" {
		return nil, AskOutput{}, fmt.Errorf("generation failed: %s", result.Error)
	}

	return nil, AskOutput{
		Answer:             result.Response,
		HasRelevantContext: result.HasRelevantContext,
		Sources:            result.Sources,
	}, nil
}

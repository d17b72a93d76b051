package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

var (
	queryLimit        int
	queryCategory     string
	queryMinScore     float64
	querySources      bool
	querySystemPrompt string
	queryJSON         bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]...",
	Short: "Ask a question answered from the knowledge base",
	Long: `Answers a question with retrieval-augmented generation: relevant
chunks are retrieved and the model's answer is grounded in them. When
nothing relevant is stored, the model answers from general knowledge
and the result is marked accordingly.

Multiple questions are processed as a batch; one failed generation does
not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", domain.DefaultRetrievalLimit,
		"maximum retrieved sources")
	queryCmd.Flags().StringVarP(&queryCategory, "category", "c", "", "restrict retrieval to a category")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", domain.DefaultMinScore,
		"minimum similarity for retrieved context")
	queryCmd.Flags().BoolVar(&querySources, "sources", true, "append source citations to the answer")
	queryCmd.Flags().StringVar(&querySystemPrompt, "system-prompt", "", "override the system prompt")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if ragService == nil {
		return errors.New("query service not configured")
	}

	opts := domain.QueryOptions{
		Limit:          queryLimit,
		Category:       queryCategory,
		MinScore:       queryMinScore,
		IncludeSources: querySources,
		SystemPrompt:   querySystemPrompt,
	}

	if len(args) == 1 {
		result, err := ragService.Query(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		return outputQueryResults(cmd, []*domain.QueryResult{result})
	}

	results, err := ragService.BatchQuery(cmd.Context(), args, opts)
	if err != nil {
		return fmt.Errorf("batch query failed: %w", err)
	}
	return outputQueryResults(cmd, results)
}

func outputQueryResults(cmd *cobra.Command, results []*domain.QueryResult) error {
	if queryJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i, result := range results {
		if i > 0 {
			cmd.Println()
			cmd.Println("---")
			cmd.Println()
		}

		if result.Error != "" {
			cmd.Printf("Error: %s\n", result.Error)
			continue
		}

		cmd.Println(result.Response)
		if !result.HasRelevantContext {
			cmd.Println()
			cmd.Println("Note: no relevant material found in the knowledge base; answered from general knowledge.")
		}
	}
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	stats, err := knowledgeService.Statistics(cmd.Context())
	if err != nil {
		return fmt.Errorf("statistics: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Knowledge base statistics:")
	cmd.Printf("  Documents:   %d\n", stats.TotalDocuments)
	cmd.Printf("  Chunks:      %d\n", stats.TotalChunks)
	cmd.Printf("  Embeddings:  %d\n", stats.TotalEmbeddings)
	cmd.Printf("  Chunk size:  %d\n", stats.ChunkSize)
	cmd.Printf("  Overlap:     %d\n", stats.ChunkOverlap)

	if len(stats.Categories) > 0 {
		cmd.Println("  Categories:")
		names := make([]string, 0, len(stats.Categories))
		for name := range stats.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cmd.Printf("    %s: %d\n", name, stats.Categories[name])
		}
	}
	return nil
}

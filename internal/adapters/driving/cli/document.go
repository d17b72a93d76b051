package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

var (
	getJSON      bool
	listCategory string
	listJSON     bool

	updateSource   string
	updateTitle    string
	updateCategory string
	updateAuthor   string
	updateURL      string
	updateKeywords []string
)

var getCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its embeddings",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var updateCmd = &cobra.Command{
	Use:   "update [doc-id] [text]",
	Short: "Replace a document's text and metadata",
	Long: `Replaces the document under the same ID. The old chunks and
embeddings are discarded and fresh ones generated from the new text.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output as JSON")

	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "filter by category")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	updateCmd.Flags().StringVarP(&updateSource, "source", "s", "", "provenance source (required)")
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "document title")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "category")
	updateCmd.Flags().StringVar(&updateAuthor, "author", "", "document author")
	updateCmd.Flags().StringVar(&updateURL, "url", "", "reference URL")
	updateCmd.Flags().StringSliceVarP(&updateKeywords, "keyword", "k", nil, "keyword (repeatable)")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(updateCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	doc, err := knowledgeService.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if getJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	printMetadata(cmd, doc.Metadata)
	cmd.Println()
	cmd.Println(doc.Text)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	docs, err := knowledgeService.ListDocuments(cmd.Context(), listCategory)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	// Deterministic order for humans and tests.
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		doc := docs[id]
		cmd.Printf("  %s\n", id)
		if doc.Metadata.Title != "" {
			cmd.Printf("    Title:    %s\n", doc.Metadata.Title)
		}
		if doc.Metadata.Category != "" {
			cmd.Printf("    Category: %s\n", doc.Metadata.Category)
		}
		cmd.Printf("    Source:   %s\n", doc.Metadata.Source)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if err := knowledgeService.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	meta := domain.DocumentMetadata{
		Source:   updateSource,
		Title:    updateTitle,
		Category: updateCategory,
		Author:   updateAuthor,
		URL:      updateURL,
		Keywords: updateKeywords,
	}

	if err := knowledgeService.UpdateDocument(cmd.Context(), args[0], args[1], meta); err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	cmd.Printf("Updated document %s\n", args[0])
	return nil
}

func printMetadata(cmd *cobra.Command, meta domain.DocumentMetadata) {
	cmd.Printf("  Source:   %s\n", meta.Source)
	if meta.Title != "" {
		cmd.Printf("  Title:    %s\n", meta.Title)
	}
	if meta.Category != "" {
		cmd.Printf("  Category: %s\n", meta.Category)
	}
	if meta.Author != "" {
		cmd.Printf("  Author:   %s\n", meta.Author)
	}
	if meta.URL != "" {
		cmd.Printf("  URL:      %s\n", meta.URL)
	}
	if len(meta.Keywords) > 0 {
		cmd.Printf("  Keywords: %s\n", strings.Join(meta.Keywords, ", "))
	}
}

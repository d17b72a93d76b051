package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medinex-cli/internal/core/domain"
)

var (
	addID       string
	addSource   string
	addTitle    string
	addCategory string
	addAuthor   string
	addURL      string
	addKeywords []string
	addFromFile string
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a document to the knowledge base",
	Long: `Adds a document: the text is split into chunks, every chunk is
embedded, and the document becomes searchable once all embeddings are
stored. Text is taken from the argument, from --file, or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "document ID (generated when empty)")
	addCmd.Flags().StringVarP(&addSource, "source", "s", "", "provenance source (required)")
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "document title")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category, e.g. medication")
	addCmd.Flags().StringVar(&addAuthor, "author", "", "document author")
	addCmd.Flags().StringVar(&addURL, "url", "", "reference URL")
	addCmd.Flags().StringSliceVarP(&addKeywords, "keyword", "k", nil, "keyword (repeatable)")
	addCmd.Flags().StringVarP(&addFromFile, "file", "f", "", "read document text from file")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	text, err := readDocumentText(cmd, args)
	if err != nil {
		return err
	}

	meta := domain.DocumentMetadata{
		Source:   addSource,
		Title:    addTitle,
		Category: addCategory,
		Author:   addAuthor,
		URL:      addURL,
		Keywords: addKeywords,
	}

	id, err := knowledgeService.AddDocument(cmd.Context(), text, meta, addID)
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	cmd.Printf("Added document %s\n", id)
	return nil
}

// readDocumentText resolves the text from the argument, --file, or
// stdin, in that order.
func readDocumentText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	if addFromFile != "" {
		data, err := os.ReadFile(addFromFile)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", addFromFile, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

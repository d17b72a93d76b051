// Package cli wires the cobra command tree. Services are injected from
// main through the Set* functions before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/medinex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medinex-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Nil until main wires them.
var (
	knowledgeService driving.KnowledgeService
	searchService    driving.SearchService
	ragService       driving.RAGService
	importerService  driving.ImporterService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "medinex",
	Short: "Medical knowledge base with retrieval-augmented answers",
	Long: `medinex manages a local medical knowledge base: documents are
chunked, embedded, and indexed for similarity search, and questions are
answered with retrieval-augmented generation grounded in the stored
material.`,
	// Errors are reported once by main.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetKnowledgeService injects the knowledge service.
func SetKnowledgeService(s driving.KnowledgeService) {
	knowledgeService = s
}

// SetSearchService injects the search service.
func SetSearchService(s driving.SearchService) {
	searchService = s
}

// SetRAGService injects the RAG query service.
func SetRAGService(s driving.RAGService) {
	ragService = s
}

// SetImporterService injects the importer service.
func SetImporterService(s driving.ImporterService) {
	importerService = s
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var importRecursive bool

var importCmd = &cobra.Command{
	Use:   "import [directory]",
	Short: "Import documents from a directory",
	Long: `Imports every supported file in a directory: .txt and .md files
become one document each, .csv files one document per row, .json files
one document per object. Failures are reported per file and do not
abort the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importRecursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importerService == nil {
		return errors.New("importer service not configured")
	}

	report, err := importerService.ImportDirectory(cmd.Context(), args[0], importRecursive)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	cmd.Printf("Imported %d documents (%d failed, %d skipped)\n",
		report.Imported, report.Failed, report.Skipped)

	if len(report.Errors) > 0 {
		cmd.Println("\nFailures:")
		paths := make([]string, 0, len(report.Errors))
		for path := range report.Errors {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			cmd.Printf("  %s: %s\n", path, report.Errors[path])
		}
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all documents, chunks, and embeddings",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "skip confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if !resetForce {
		return errors.New("reset is destructive; re-run with --force to confirm")
	}

	if err := knowledgeService.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	cmd.Println("Knowledge base reset.")
	return nil
}

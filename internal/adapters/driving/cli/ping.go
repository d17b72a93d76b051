package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// pingTimeout bounds each provider connectivity check.
const pingTimeout = 5 * time.Second

// ProviderStatus reports the connectivity of one configured provider.
type ProviderStatus struct {
	Name  string
	Model string
	Err   error
}

// providerCheck is injected from main. Nil until wired.
var providerCheck func(ctx context.Context) []ProviderStatus

// SetProviderCheck injects the provider connectivity check.
func SetProviderCheck(f func(ctx context.Context) []ProviderStatus) {
	providerCheck = f
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the configured providers",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	if providerCheck == nil {
		return errors.New("provider check not configured")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
	defer cancel()

	failed := 0
	for _, status := range providerCheck(ctx) {
		if status.Err != nil {
			failed++
			cmd.Printf("%-10s %s: unreachable (%v)\n", status.Name, status.Model, status.Err)
			continue
		}
		cmd.Printf("%-10s %s: ok\n", status.Name, status.Model)
	}

	if failed > 0 {
		return fmt.Errorf("%d provider(s) unreachable", failed)
	}
	return nil
}

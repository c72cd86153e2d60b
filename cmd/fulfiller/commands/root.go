package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fulfiller",
		Short: "Fulfillment automation for the Connect platform",
		Long: `fulfiller polls the Connect platform for pending fulfillment and
tier-config requests and reconciles each one through the configured
business logic.

Configuration is read from FULFILLMENT_* environment variables and an
optional .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newOnceCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

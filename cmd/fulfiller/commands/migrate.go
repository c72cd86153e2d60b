package commands

import (
	"github.com/DanielPopoola/connect-fulfillment/internal/infrastructure/persistence/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the dispatch journal schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if a.db == nil {
				return errJournalDisabled
			}
			return postgres.Migrate(cmd.Context(), a.db)
		},
	}
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <item-id>",
		Short: "Show journaled dispatches of a request or tier-config request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if a.journal == nil {
				return errJournalDisabled
			}

			records, err := a.journal.FindByItemID(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rec := range records {
				line := fmt.Sprintf("%s\t%s\t%s\t%s", rec.StartedAt.Format(time.RFC3339), rec.Kind, rec.Outcome, rec.Result)
				if rec.Error != nil {
					line += "\terror: " + *rec.Error
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of records to show")
	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOnceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single poll cycle and exit",
		Long:  "Run a single poll cycle. The exit status is non-zero when any listing or dispatch failed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.poller.RunOnce(cmd.Context())

			out := cmd.OutOrStdout()
			for _, item := range report.Items {
				if item.Err != nil {
					fmt.Fprintf(out, "%s\t%s\terror: %v\n", item.Kind, item.ItemID, item.Err)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", item.Kind, item.ItemID, item.Result)
			}
			fmt.Fprintf(out, "%d items, %d failed\n", len(report.Items), report.Failed)

			return err
		},
	}
}

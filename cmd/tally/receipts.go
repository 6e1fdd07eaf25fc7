package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/Veraticus/tally/internal/tracker"
)

func receiptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Browse scanned receipts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your most recent receipts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				receipts, err := t.Receipts(ctx, limit)
				if err != nil {
					return err
				}
				return cli.RenderReceipts(cmd.OutOrStdout(), receipts)
			})
		},
	}
	list.Flags().Int("limit", storage.DefaultReceiptLimit, "maximum number of receipts to show")

	cmd.AddCommand(list)
	return cmd
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/tracker"
)

func tipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Educational tax tips",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "daily",
		Short: "Show a general tax tip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				tip, ok, err := t.DailyTip(ctx)
				if err != nil {
					return err
				}
				if !ok {
					_, err := fmt.Fprintln(cmd.OutOrStdout(),
						cli.FormatInfo("You've seen every general tip. Run 'tally tips reset' to start over."))
					return err
				}
				return cli.RenderTip(cmd.OutOrStdout(), tip)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget which tips you have seen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				if err := t.ResetTips(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Tip history cleared"))
				return err
			})
		},
	})

	return cmd
}

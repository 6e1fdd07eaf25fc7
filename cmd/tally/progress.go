package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/tracker"
)

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show totals, streaks and progress toward the next achievements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				progress, err := t.Progress(ctx)
				if err != nil {
					return err
				}
				summaries, err := t.Summary(ctx)
				if err != nil {
					return err
				}
				return cli.RenderProgress(cmd.OutOrStdout(), progress, summaries)
			})
		},
	}
}

func achievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List every achievement and whether you have unlocked it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithTracker(cmd, func(_ context.Context, t *tracker.Tracker) error {
				return cli.RenderAchievements(cmd.OutOrStdout(), t.Achievements())
			})
		},
	}
}

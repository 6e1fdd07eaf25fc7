package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/tracker"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your tax profile",
		Long: `The tax profile selects the marginal rate used for savings estimates.

Income brackets:
  low     up to $50,000
  medium  $50,001 to $100,000
  high    above $100,000`,
	}

	cmd.AddCommand(profileSetCmd())
	cmd.AddCommand(profileShowCmd())

	return cmd
}

func profileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Set your income bracket and filing status",
		Example: `  tally profile set --bracket medium --filing single`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bracket, _ := cmd.Flags().GetString("bracket")
			filing, _ := cmd.Flags().GetString("filing")

			return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				profile, err := t.SetProfile(ctx, model.IncomeBracket(bracket), model.FilingStatus(filing))
				if err != nil {
					return err
				}
				rate, _ := t.Rate(profile.IncomeBracket)

				out := cmd.OutOrStdout()
				if _, err := fmt.Fprintln(out, cli.FormatSuccess("Tax profile saved")); err != nil {
					return err
				}
				return cli.RenderProfile(out, profile, rate)
			})
		},
	}

	cmd.Flags().String("bracket", "", "income bracket (low, medium, high)")
	cmd.Flags().String("filing", string(model.FilingSingle), "filing status (single, married)")
	_ = cmd.MarkFlagRequired("bracket")

	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your tax profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				profile, err := t.Profile(ctx)
				if err != nil {
					return err
				}
				rate, _ := t.Rate(profile.IncomeBracket)
				if err := cli.RenderProfile(cmd.OutOrStdout(), profile, rate); err != nil {
					return err
				}

				deduction, err := t.StandardDeduction(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Standard deduction: %s\n", cli.FormatCents(deduction))
				return err
			})
		},
	}
}

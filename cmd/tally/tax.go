package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/tax"
	"github.com/Veraticus/tally/internal/tracker"
)

func taxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate tax savings without recording a receipt",
	}

	cmd.AddCommand(taxEstimateCmd())
	cmd.AddCommand(taxValidateCmd())

	return cmd
}

func taxEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate AMOUNT",
		Short: "Estimate the saving of an expense or a period's deductions",
		Example: `  tally tax estimate 120 --category business_meal
  tally tax estimate 8400 --period quarterly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := cli.ParseDollars(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("%q is not a dollar amount", args[0]), err)
			}
			category, _ := cmd.Flags().GetString("category")
			period, _ := cmd.Flags().GetString("period")

			return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				est, err := t.Estimate(ctx, amount, category, tracker.Period(period))
				if err != nil {
					return err
				}
				return cli.RenderEstimate(cmd.OutOrStdout(), amount, est)
			})
		},
	}

	cmd.Flags().String("category", "", "expense category")
	cmd.Flags().String("period", string(tracker.PeriodExpense), "expense, annual or quarterly")

	return cmd
}

func taxValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate AMOUNT",
		Short: "Check whether an expense amount looks reasonable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := cli.ParseDollars(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("%q is not a dollar amount", args[0]), err)
			}

			v := tax.ValidateExpenseAmount(amount)
			out := cmd.OutOrStdout()
			switch {
			case !v.Valid:
				_, err = fmt.Fprintln(out, cli.FormatError(v.Warning))
			case v.Warning != "":
				_, err = fmt.Fprintln(out, cli.FormatWarning(v.Warning))
			default:
				_, err = fmt.Fprintln(out, cli.FormatSuccess(cli.FormatCents(amount)+" looks fine"))
			}
			return err
		},
	}
}

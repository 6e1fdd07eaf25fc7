package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/tracker"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan AMOUNT",
		Short: "Record a scanned receipt",
		Long: `Record a receipt, estimate its potential tax saving and update your
progress. Newly unlocked achievements and relevant tax tips are shown.

Categories with special deduction rules:
  business_meal   50% deductible
  entertainment   not deductible
Any other category is treated as fully deductible.`,
		Example: `  tally scan 42.50 --vendor "Corner Cafe" --category business_meal
  tally scan '$1,299.00' --category equipment --image receipts/laptop.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().String("vendor", "", "vendor name")
	cmd.Flags().String("category", "", "expense category")
	cmd.Flags().String("image", "", "path or reference to the receipt image")
	cmd.Flags().String("notes", "", "free-form notes")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	amount, err := cli.ParseDollars(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not a dollar amount", args[0]), err)
	}

	vendor, _ := cmd.Flags().GetString("vendor")
	category, _ := cmd.Flags().GetString("category")
	image, _ := cmd.Flags().GetString("image")
	notes, _ := cmd.Flags().GetString("notes")

	return runWithTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
		result, err := t.Scan(ctx, tracker.ScanInput{
			ImagePath:   image,
			VendorName:  vendor,
			Category:    category,
			Notes:       notes,
			TotalAmount: amount,
		})
		if err != nil {
			return err
		}
		return cli.RenderScanResult(cmd.OutOrStdout(), result)
	})
}

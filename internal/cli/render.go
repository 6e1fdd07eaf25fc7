package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/tracker"
)

// FormatCents formats an amount in cents as dollars with thousands separators.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	dollars := fmt.Sprintf("%d", cents/100)
	var grouped strings.Builder
	for i, digit := range dollars {
		if i > 0 && (len(dollars)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return fmt.Sprintf("%s$%s.%02d", sign, grouped.String(), cents%100)
}

// FormatRate formats a fractional rate as a whole percentage.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

var categoryLabels = map[model.AchievementCategory]string{
	model.AchievementScanning:    "Scanning",
	model.AchievementSavings:     "Savings",
	model.AchievementConsistency: "Streak",
	model.AchievementLearning:    "Learning",
}

func formatValue(category model.AchievementCategory, v int64) string {
	switch category {
	case model.AchievementSavings:
		return FormatCents(v)
	case model.AchievementConsistency:
		if v == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", v)
	default:
		return fmt.Sprintf("%d", v)
	}
}

// RenderScanResult writes the outcome of a scan.
func RenderScanResult(w io.Writer, result *tracker.ScanResult) error {
	var b strings.Builder

	r := result.Receipt
	vendor := r.VendorName
	if vendor == "" {
		vendor = "Unknown vendor"
	}
	category := r.Category
	if category == "" {
		category = "uncategorized"
	}

	b.WriteString(FormatSuccess(fmt.Sprintf("Receipt %s saved", r.ID)) + "\n")
	fmt.Fprintf(&b, "  %s · %s · %s\n", vendor, category, FormatCents(r.TotalAmount))
	fmt.Fprintf(&b, "  %s Potential tax saving: %s (%s rate)\n",
		MoneyIcon, StyleAmount(FormatCents(result.Estimate.PotentialSaving)), FormatRate(result.Estimate.EffectiveRate))
	b.WriteString("  " + StyleSubtle(result.Estimate.Disclaimer) + "\n")
	if result.Validation.Warning != "" {
		b.WriteString(FormatWarning(result.Validation.Warning) + "\n")
	}

	for _, u := range result.Unlocks {
		b.WriteString("\n" + UnlockStyle.Render(fmt.Sprintf("%s %s unlocked!", u.Achievement.Icon, u.Achievement.Name)) + "\n")
		b.WriteString("  " + u.Message + "\n")
	}

	for _, s := range result.Suggestions {
		b.WriteString("\n" + renderTip(s.Tip, s.Reason) + "\n")
	}

	p := result.Progress
	fmt.Fprintf(&b, "\n%s %d receipts · %s tracked · %s streak\n",
		ChartIcon, p.TotalReceiptsScanned, FormatCents(p.TotalPotentialSavings),
		formatValue(model.AchievementConsistency, p.CurrentStreak))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderProgress writes the progress totals and one milestone bar per
// achievement category.
func RenderProgress(w io.Writer, progress model.UserProgress, summaries []tracker.CategorySummary) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Progress")); err != nil {
		return err
	}

	rows := [][2]string{
		{"Receipts scanned", fmt.Sprintf("%d", progress.TotalReceiptsScanned)},
		{"Potential savings", FormatCents(progress.TotalPotentialSavings)},
		{"Current streak", formatValue(model.AchievementConsistency, progress.CurrentStreak)},
		{"Longest streak", formatValue(model.AchievementConsistency, progress.LongestStreak)},
	}
	if progress.LastScanDate != nil {
		rows = append(rows, [2]string{"Last scan", progress.LastScanDate.Format("2006-01-02 15:04")})
	}
	for _, row := range rows {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(20).Render(row[0]),
			BoldStyle.Render(row[1]))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for _, s := range summaries {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := RenderMilestone(w, s); err != nil {
			return err
		}
	}
	return nil
}

// RenderMilestone writes a progress bar toward the next achievement in a
// category, or a completion line once every milestone is reached.
func RenderMilestone(w io.Writer, s tracker.CategorySummary) error {
	label := categoryLabels[s.Category]
	if label == "" {
		label = string(s.Category)
	}
	header := fmt.Sprintf("%s %s (%d/%d unlocked)", BoldStyle.Render(label), formatValue(s.Category, s.Current), s.Unlocked, s.Total)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	if s.Next == nil {
		_, err := fmt.Fprintln(w, FormatSuccess("Every milestone reached"))
		return err
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetDescription(fmt.Sprintf("%s %s → %s", s.Next.Icon, s.Next.Name, formatValue(s.Category, s.Next.Threshold))),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	if err := bar.Set(max(0, min(99, s.Percent))); err != nil {
		return fmt.Errorf("failed to render progress bar: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderAchievements writes the catalog grouped by category.
func RenderAchievements(w io.Writer, achievements []model.Achievement) error {
	var b strings.Builder
	b.WriteString(FormatTitle("Achievements") + "\n")

	for _, category := range model.AchievementCategories {
		b.WriteString(TableHeaderStyle.Render(categoryLabels[category]) + "\n")
		for _, a := range achievements {
			if a.Category != category {
				continue
			}
			if a.Unlocked {
				line := fmt.Sprintf("%s %s  %s", a.Icon, BoldStyle.Render(a.Name), a.Description)
				if a.UnlockedAt != nil {
					line += StyleSubtle(" (" + a.UnlockedAt.Format("2006-01-02") + ")")
				}
				b.WriteString(line + "\n")
				continue
			}
			b.WriteString(LockedStyle.Render(fmt.Sprintf("%s %s  %s", LockIcon, a.Name, a.Description)) + "\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderTip(tip model.EducationalTip, reason string) string {
	content := tip.Content
	if reason != "" {
		content += "\n" + StyleSubtle(reason)
	}
	return RenderBox(TipIcon+" "+tip.Title, content)
}

// RenderTip writes a single educational tip.
func RenderTip(w io.Writer, tip model.EducationalTip) error {
	_, err := fmt.Fprintln(w, renderTip(tip, ""))
	return err
}

var periodLabels = map[tracker.Period]string{
	tracker.PeriodExpense:   "Expense",
	tracker.PeriodAnnual:    "Annual",
	tracker.PeriodQuarterly: "Quarterly",
}

// RenderEstimate writes a savings estimate.
func RenderEstimate(w io.Writer, amount int64, est *tracker.Estimate) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s estimate for %s\n", MoneyIcon, periodLabels[est.Period], FormatCents(amount))
	if est.Period == tracker.PeriodExpense {
		fmt.Fprintf(&b, "  Deductible portion: %s\n", FormatRate(est.DeductionPercentage))
	}
	fmt.Fprintf(&b, "  Marginal rate: %s\n", FormatRate(est.Result.EffectiveRate))
	fmt.Fprintf(&b, "  Potential saving: %s\n", StyleAmount(FormatCents(est.Result.PotentialSaving)))
	if est.Validation.Warning != "" {
		b.WriteString(FormatWarning(est.Validation.Warning) + "\n")
	}
	b.WriteString(StyleSubtle(est.Result.Disclaimer) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderReceipts writes receipts as a table.
func RenderReceipts(w io.Writer, receipts []model.Receipt) error {
	if len(receipts) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No receipts scanned yet"))
		return err
	}

	// Cell widths include the two columns of right padding.
	widths := []int{19, 24, 24, 14, 14}
	header := []string{"Scanned", "Vendor", "Category", "Amount", "Saving"}

	var b strings.Builder
	b.WriteString(renderRow(TableHeaderStyle, widths, header) + "\n")
	for _, r := range receipts {
		b.WriteString(renderRow(TableCellStyle, widths, []string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			truncate(r.VendorName, widths[1]-2),
			truncate(r.Category, widths[2]-2),
			FormatCents(r.TotalAmount),
			FormatCents(r.PotentialTaxSaving),
		}) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderRow(style lipgloss.Style, widths []int, cells []string) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = style.Width(widths[i]).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// RenderProfile writes a tax profile with its marginal rate.
func RenderProfile(w io.Writer, profile *model.UserProfile, rate float64) error {
	content := fmt.Sprintf("Income bracket: %s (%s)\nFiling status:  %s",
		profile.IncomeBracket, FormatRate(rate), profile.FilingStatus)
	_, err := fmt.Fprintln(w, RenderBox("Tax profile", content))
	return err
}

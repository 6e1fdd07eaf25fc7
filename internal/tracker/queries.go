package tracker

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/tax"
)

// Profile returns the user's tax profile.
func (t *Tracker) Profile(ctx context.Context) (*model.UserProfile, error) {
	return t.loadProfile(ctx)
}

// SetProfile creates or replaces the user's tax profile.
func (t *Tracker) SetProfile(ctx context.Context, bracket model.IncomeBracket, status model.FilingStatus) (*model.UserProfile, error) {
	if !bracket.IsValid() {
		return nil, common.NewUserError(
			fmt.Sprintf("Unknown income bracket %q (use low, medium or high)", bracket),
			common.ErrInvalidConfig)
	}
	if !status.IsValid() {
		return nil, common.NewUserError(
			fmt.Sprintf("Unknown filing status %q (use single or married)", status),
			common.ErrInvalidConfig)
	}

	now := t.now()
	profile := &model.UserProfile{
		IncomeBracket: bracket,
		FilingStatus:  status,
		CreatedAt:     now,
		LastUpdated:   now,
	}
	if existing, err := t.storage.GetProfile(ctx, t.userID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	}

	if err := t.storage.SaveProfile(ctx, t.userID, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// Progress returns the user's progress, or an empty snapshot before the first scan.
func (t *Tracker) Progress(ctx context.Context) (model.UserProgress, error) {
	return t.loadProgress(ctx)
}

// CategorySummary describes progress toward the next milestone in a category.
type CategorySummary struct {
	Next     *model.Achievement
	Category model.AchievementCategory
	Current  int64
	Percent  int
	Unlocked int
	Total    int
}

// Summary returns one entry per achievement category in display order.
func (t *Tracker) Summary(ctx context.Context) ([]CategorySummary, error) {
	progress, err := t.loadProgress(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	catalog := t.engine.Catalog()
	summaries := make([]CategorySummary, 0, len(model.AchievementCategories))
	for _, category := range model.AchievementCategories {
		s := CategorySummary{
			Category: category,
			Current:  currentValue(category, progress),
		}
		for _, a := range catalog {
			if a.Category != category {
				continue
			}
			s.Total++
			if a.Unlocked {
				s.Unlocked++
			}
		}
		if next, ok := t.engine.NextAchievement(category, s.Current); ok {
			s.Next = &next
			s.Percent, _ = t.engine.ProgressToNext(category, s.Current)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func currentValue(category model.AchievementCategory, p model.UserProgress) int64 {
	switch category {
	case model.AchievementScanning:
		return p.TotalReceiptsScanned
	case model.AchievementSavings:
		return p.TotalPotentialSavings
	case model.AchievementConsistency:
		return p.CurrentStreak
	default:
		return 0
	}
}

// Achievements returns the full catalog with the user's unlock state.
func (t *Tracker) Achievements() []model.Achievement {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Catalog()
}

// DailyTip picks a general tip, records the display and returns it. ok is
// false once every general tip has reached its display cap.
func (t *Tracker) DailyTip(ctx context.Context) (tip model.EducationalTip, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tip, ok = t.ranker.RandomGeneralTip()
	if !ok {
		return model.EducationalTip{}, false, nil
	}

	t.ranker.MarkDisplayed(tip.ID)
	tip.DisplayCount++
	if err := t.storage.SaveTipDisplayCount(ctx, t.userID, tip.ID, tip.DisplayCount); err != nil {
		return model.EducationalTip{}, false, fmt.Errorf("failed to save tip display: %w", err)
	}
	return tip, true, nil
}

// ResetTips clears the user's tip display history so every tip can be shown again.
func (t *Tracker) ResetTips(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.storage.ResetTipDisplayCounts(ctx, t.userID); err != nil {
		return err
	}
	return t.restore(ctx)
}

// Receipts returns the user's most recent receipts, newest first.
func (t *Tracker) Receipts(ctx context.Context, limit int) ([]model.Receipt, error) {
	return t.storage.ListReceipts(ctx, t.userID, limit)
}

// Period selects how an estimate is framed.
type Period string

const (
	// PeriodExpense estimates a single expense using its category's deduction rule.
	PeriodExpense Period = "expense"
	// PeriodAnnual estimates a year's fully deductible total.
	PeriodAnnual Period = "annual"
	// PeriodQuarterly estimates a quarter's fully deductible total.
	PeriodQuarterly Period = "quarterly"
)

// Estimate is a savings estimate that was not recorded as a scan.
type Estimate struct {
	Validation          tax.Validation
	Result              tax.Result
	Period              Period
	DeductionPercentage float64
}

// Estimate computes the potential saving of amount without recording anything.
func (t *Tracker) Estimate(ctx context.Context, amount int64, category string, period Period) (*Estimate, error) {
	validation := tax.ValidateExpenseAmount(amount)
	if !validation.Valid {
		return nil, common.NewUserError(validation.Warning,
			fmt.Errorf("%w: %d", common.ErrInvalidAmount, amount))
	}

	profile, err := t.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	est := &Estimate{Validation: validation, Period: period, DeductionPercentage: tax.FullDeduction}
	switch period {
	case PeriodAnnual:
		est.Result, err = t.calculator.CalculateAnnualSavings(amount, *profile)
	case PeriodQuarterly:
		est.Result, err = t.calculator.CalculateQuarterlySavings(amount, *profile)
	case PeriodExpense, "":
		est.Period = PeriodExpense
		est.DeductionPercentage = tax.DeductionPercentage(category)
		est.Result, err = t.calculator.CalculateSavings(amount, *profile, est.DeductionPercentage)
	default:
		return nil, common.NewUserError(
			fmt.Sprintf("Unknown period %q (use expense, annual or quarterly)", period),
			common.ErrInvalidConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to estimate savings: %w", err)
	}
	return est, nil
}

// Rate returns the marginal rate configured for bracket.
func (t *Tracker) Rate(bracket model.IncomeBracket) (float64, bool) {
	return t.calculator.Rate(bracket)
}

// StandardDeduction returns the configured standard deduction for the
// user's filing status.
func (t *Tracker) StandardDeduction(ctx context.Context) (int64, error) {
	profile, err := t.loadProfile(ctx)
	if err != nil {
		return 0, err
	}
	amount, ok := t.calculator.StandardDeduction(profile.FilingStatus)
	if !ok {
		return 0, fmt.Errorf("%w: no standard deduction for %s", common.ErrInvalidConfig, profile.FilingStatus)
	}
	return amount, nil
}

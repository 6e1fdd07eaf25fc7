package tracker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/achievement"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/Veraticus/tally/internal/tax"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func newTestTracker(t *testing.T, store *storage.SQLiteStorage, clock *fakeClock, opts ...Option) *Tracker {
	t.Helper()
	base := []Option{
		WithClock(clock.Now),
		WithLocation(time.UTC),
		WithIDGenerator(sequentialIDs("rcpt")),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	tr, err := New(context.Background(), store, tax.DefaultConfiguration(clock.now), "user-1", append(base, opts...)...)
	require.NoError(t, err)
	return tr
}

func withProfile(t *testing.T, tr *Tracker, bracket model.IncomeBracket) {
	t.Helper()
	_, err := tr.SetProfile(context.Background(), bracket, model.FilingSingle)
	require.NoError(t, err)
}

func unlockIDs(events []model.UnlockEvent) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.Achievement.ID
	}
	return ids
}

func TestNew_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	cfg := tax.DefaultConfiguration(time.Now())

	_, err := New(ctx, nil, cfg, "user-1")
	assert.Error(t, err)

	_, err = New(ctx, store, cfg, "")
	assert.Error(t, err)

	broken := tax.DefaultConfiguration(time.Now())
	broken.IncomeBrackets[model.BracketLow] = model.BracketRange{Min: 0, Max: 10, Rate: 1.5}
	_, err = New(ctx, store, broken, "user-1")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestScan_BusinessMeal(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketMedium)
	ctx := context.Background()

	result, err := tr.Scan(ctx, ScanInput{
		VendorName:  "Corner Restaurant",
		Category:    "business_meal",
		TotalAmount: 5000,
	})
	require.NoError(t, err)

	assert.Equal(t, "rcpt-1", result.Receipt.ID)
	assert.Equal(t, int64(550), result.Receipt.PotentialTaxSaving)
	assert.Equal(t, int64(550), result.Estimate.PotentialSaving)
	assert.True(t, result.Validation.Valid)
	assert.Equal(t, []string{achievement.IDFirstScan}, unlockIDs(result.Unlocks))
	assert.Equal(t, []string{achievement.IDFirstScan}, result.Progress.UnlockedAchievementIDs)

	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, "business-meal-basic", result.Suggestions[0].Tip.ID)
	assert.Equal(t, "business-meal-limits", result.Suggestions[1].Tip.ID)

	saved, err := store.GetReceipt(ctx, "rcpt-1")
	require.NoError(t, err)
	assert.Equal(t, int64(550), saved.PotentialTaxSaving)
	assert.Equal(t, "Corner Restaurant", saved.VendorName)

	progress, err := store.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), progress.TotalReceiptsScanned)
	assert.Equal(t, int64(550), progress.TotalPotentialSavings)
	assert.Equal(t, int64(1), progress.CurrentStreak)
	assert.True(t, progress.HasUnlocked(achievement.IDFirstScan))

	unlocks, err := store.GetAchievementUnlocks(ctx, "user-1")
	require.NoError(t, err)
	assert.Contains(t, unlocks, achievement.IDFirstScan)

	counts, err := store.GetTipDisplayCounts(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"business-meal-basic": 1, "business-meal-limits": 1}, counts)
}

func TestScan_RequiresProfile(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	ctx := context.Background()

	_, err := tr.Scan(ctx, ScanInput{Category: "equipment", TotalAmount: 1000})
	require.ErrorIs(t, err, common.ErrProfileNotFound)
	msg, ok := common.UserMessage(err)
	assert.True(t, ok)
	assert.Contains(t, msg, "tally profile set")

	receipts, err := store.ListReceipts(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestScan_InvalidAmount(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketLow)

	for _, amount := range []int64{0, -500} {
		_, err := tr.Scan(context.Background(), ScanInput{TotalAmount: amount})
		require.ErrorIs(t, err, common.ErrInvalidAmount)
		msg, ok := common.UserMessage(err)
		assert.True(t, ok)
		assert.Equal(t, tax.WarningNonPositive, msg)
	}
}

func TestScan_WarnsOnSmallAmount(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketLow)

	result, err := tr.Scan(context.Background(), ScanInput{Category: "office_supplies", TotalAmount: 50})
	require.NoError(t, err)
	assert.True(t, result.Validation.Valid)
	assert.Equal(t, tax.WarningSmall, result.Validation.Warning)
	assert.Equal(t, int64(6), result.Receipt.PotentialTaxSaving)
}

func TestScan_TenSameDayReceipts(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketLow)
	ctx := context.Background()

	var unlocked []string
	var last *ScanResult
	for i := 0; i < 10; i++ {
		// 8334 cents at 12% saves exactly $10.00.
		result, err := tr.Scan(ctx, ScanInput{Category: "general", TotalAmount: 8334})
		require.NoError(t, err)
		unlocked = append(unlocked, unlockIDs(result.Unlocks)...)
		last = result
		clock.Advance(time.Minute)
	}

	assert.ElementsMatch(t, []string{achievement.IDFirstScan, achievement.IDScan10, achievement.IDSave100}, unlocked)
	assert.Equal(t, int64(10), last.Progress.TotalReceiptsScanned)
	assert.Equal(t, int64(10000), last.Progress.TotalPotentialSavings)
	assert.Equal(t, int64(1), last.Progress.CurrentStreak)
	assert.Equal(t, int64(1), last.Progress.LongestStreak)

	progress, err := tr.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, last.Progress.TotalPotentialSavings, progress.TotalPotentialSavings)
	assert.Len(t, progress.UnlockedAchievementIDs, 3)
}

func TestScan_Streaks(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketLow)
	ctx := context.Background()

	steps := []struct {
		name        string
		advance     time.Duration
		wantCurrent int64
		wantLongest int64
		wantUnlock  bool
	}{
		{name: "first day", advance: 0, wantCurrent: 1, wantLongest: 1},
		{name: "next morning", advance: 10 * time.Hour, wantCurrent: 2, wantLongest: 2},
		{name: "following day", advance: 24 * time.Hour, wantCurrent: 3, wantLongest: 3, wantUnlock: true},
		{name: "same day again", advance: time.Hour, wantCurrent: 3, wantLongest: 3},
		{name: "after a gap", advance: 72 * time.Hour, wantCurrent: 1, wantLongest: 3},
	}

	for _, step := range steps {
		clock.Advance(step.advance)
		result, err := tr.Scan(ctx, ScanInput{Category: "travel", TotalAmount: 2000})
		require.NoError(t, err, step.name)
		assert.Equal(t, step.wantCurrent, result.Progress.CurrentStreak, step.name)
		assert.Equal(t, step.wantLongest, result.Progress.LongestStreak, step.name)
		assert.Equal(t, step.wantUnlock, contains(unlockIDs(result.Unlocks), achievement.IDStreak3), step.name)
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func TestNew_RestoresState(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	first := newTestTracker(t, store, clock)
	withProfile(t, first, model.BracketMedium)
	_, err := first.Scan(ctx, ScanInput{Category: "business_meal", TotalAmount: 5000})
	require.NoError(t, err)

	second := newTestTracker(t, store, clock, WithIDGenerator(sequentialIDs("again")))
	for _, a := range second.Achievements() {
		if a.ID == achievement.IDFirstScan {
			assert.True(t, a.Unlocked)
			require.NotNil(t, a.UnlockedAt)
			assert.True(t, a.UnlockedAt.Equal(clock.now))
		}
	}

	clock.Advance(time.Hour)
	result, err := second.Scan(ctx, ScanInput{Category: "business_meal", TotalAmount: 5000})
	require.NoError(t, err)
	assert.Empty(t, result.Unlocks)

	counts, err := store.GetTipDisplayCounts(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, counts["business-meal-basic"])
	assert.Equal(t, 2, counts["business-meal-limits"])
}

func TestScan_FailedPersistLeavesNoTrace(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	// Another user already owns the first generated ID.
	taken := model.Receipt{ID: "rcpt-1", CreatedAt: clock.now, TotalAmount: 100}
	require.NoError(t, store.SaveReceipt(ctx, "someone-else", &taken))

	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketMedium)

	_, err := tr.Scan(ctx, ScanInput{Category: "business_meal", TotalAmount: 5000})
	require.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = store.GetProgress(ctx, "user-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	counts, err := store.GetTipDisplayCounts(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, counts)

	result, err := tr.Scan(ctx, ScanInput{Category: "business_meal", TotalAmount: 5000})
	require.NoError(t, err)
	assert.Equal(t, "rcpt-2", result.Receipt.ID)
	assert.Equal(t, []string{achievement.IDFirstScan}, unlockIDs(result.Unlocks))

	counts, err = store.GetTipDisplayCounts(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts["business-meal-basic"])
}

func TestDailyTip(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	ctx := context.Background()

	// The general tips allow fifteen displays between them.
	for i := 0; i < 15; i++ {
		tip, ok, err := tr.DailyTip(ctx)
		require.NoError(t, err)
		require.True(t, ok, "display %d", i+1)
		assert.Equal(t, model.TipGeneral, tip.Category)
		assert.LessOrEqual(t, tip.DisplayCount, tip.MaxDisplays)
	}

	_, ok, err := tr.DailyTip(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	counts, err := store.GetTipDisplayCounts(ctx, "user-1")
	require.NoError(t, err)
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 15, total)

	require.NoError(t, tr.ResetTips(ctx))
	_, ok, err = tr.DailyTip(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEstimate(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketMedium)
	ctx := context.Background()

	tests := []struct {
		name           string
		category       string
		period         Period
		wantDisclaimer string
		amount         int64
		wantSaving     int64
		wantPct        float64
	}{
		{name: "half deductible meal", category: "business_meal", period: PeriodExpense, amount: 5000, wantSaving: 550, wantPct: 0.5, wantDisclaimer: tax.Disclaimer},
		{name: "entertainment", category: "entertainment", period: "", amount: 5000, wantSaving: 0, wantPct: 0, wantDisclaimer: tax.Disclaimer},
		{name: "annual total", period: PeriodAnnual, amount: 100000, wantSaving: 22000, wantPct: 1, wantDisclaimer: tax.Disclaimer},
		{name: "quarterly total", period: PeriodQuarterly, amount: 100000, wantSaving: 22000, wantPct: 1, wantDisclaimer: tax.QuarterlyDisclaimer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := tr.Estimate(ctx, tt.amount, tt.category, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaving, est.Result.PotentialSaving)
			assert.InDelta(t, tt.wantPct, est.DeductionPercentage, 1e-9)
			assert.Equal(t, tt.wantDisclaimer, est.Result.Disclaimer)
		})
	}

	_, err := tr.Estimate(ctx, 1000, "", "monthly")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = tr.Estimate(ctx, 0, "", PeriodExpense)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	receipts, err := tr.Receipts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestSummary(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	withProfile(t, tr, model.BracketLow)
	ctx := context.Background()

	_, err := tr.Scan(ctx, ScanInput{Category: "office_supplies", TotalAmount: 10000})
	require.NoError(t, err)

	summaries, err := tr.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, len(model.AchievementCategories))

	byCategory := make(map[model.AchievementCategory]CategorySummary)
	for _, s := range summaries {
		byCategory[s.Category] = s
	}

	tests := []struct {
		category     model.AchievementCategory
		wantNext     string
		wantCurrent  int64
		wantPercent  int
		wantUnlocked int
		wantTotal    int
	}{
		{model.AchievementScanning, achievement.IDScan10, 1, 10, 1, 4},
		{model.AchievementSavings, achievement.IDSave100, 1200, 12, 0, 4},
		{model.AchievementConsistency, achievement.IDStreak3, 1, 33, 0, 3},
		{model.AchievementLearning, achievement.IDLearn5, 0, 0, 0, 2},
	}
	for _, tt := range tests {
		s := byCategory[tt.category]
		require.NotNil(t, s.Next, tt.category)
		assert.Equal(t, tt.wantNext, s.Next.ID, tt.category)
		assert.Equal(t, tt.wantCurrent, s.Current, tt.category)
		assert.Equal(t, tt.wantPercent, s.Percent, tt.category)
		assert.Equal(t, tt.wantUnlocked, s.Unlocked, tt.category)
		assert.Equal(t, tt.wantTotal, s.Total, tt.category)
	}
}

func TestProfile(t *testing.T) {
	store := newTestStorage(t)
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(t, store, clock)
	ctx := context.Background()

	_, err := tr.Profile(ctx)
	require.ErrorIs(t, err, common.ErrProfileNotFound)

	_, err = tr.SetProfile(ctx, "ultra", model.FilingSingle)
	require.Error(t, err)
	_, ok := common.UserMessage(err)
	assert.True(t, ok)

	_, err = tr.SetProfile(ctx, model.BracketLow, "widowed")
	require.Error(t, err)

	created, err := tr.SetProfile(ctx, model.BracketLow, model.FilingSingle)
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)
	updated, err := tr.SetProfile(ctx, model.BracketHigh, model.FilingMarried)
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.LastUpdated.Equal(clock.now))

	got, err := tr.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.BracketHigh, got.IncomeBracket)

	deduction, err := tr.StandardDeduction(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2_750_000), deduction)
}

// Package tracker ties receipt scanning to savings estimates, achievements and
// educational tips for a single user, persisting every outcome.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/tally/internal/achievement"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/tax"
	"github.com/Veraticus/tally/internal/tips"
)

// Tracker orchestrates the scan flow for one user.
type Tracker struct {
	storage    service.Storage
	calculator *tax.Calculator
	engine     *achievement.Engine
	ranker     *tips.Ranker
	now        func() time.Time
	location   *time.Location
	rng        *rand.Rand
	newID      func() string
	userID     string
	mu         sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the source of the current instant for scans and streaks.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLocation sets the time zone streak days are counted in.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.location = loc
		}
	}
}

// WithRand sets the random source used to pick daily tips.
func WithRand(r *rand.Rand) Option {
	return func(t *Tracker) {
		t.rng = r
	}
}

// WithIDGenerator replaces the receipt ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) {
		if newID != nil {
			t.newID = newID
		}
	}
}

// New creates a tracker for userID and restores its achievement and tip state
// from storage.
func New(ctx context.Context, store service.Storage, cfg model.TaxConfiguration, userID string, opts ...Option) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	t := &Tracker{
		storage:    store,
		calculator: tax.NewCalculator(cfg),
		now:        time.Now,
		location:   time.Local,
		newID:      uuid.NewString,
		userID:     userID,
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.restore(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// restore rebuilds the engine and ranker from persisted state.
func (t *Tracker) restore(ctx context.Context) error {
	unlocks, err := t.storage.GetAchievementUnlocks(ctx, t.userID)
	if err != nil {
		return fmt.Errorf("failed to load achievement unlocks: %w", err)
	}
	counts, err := t.storage.GetTipDisplayCounts(ctx, t.userID)
	if err != nil {
		return fmt.Errorf("failed to load tip display counts: %w", err)
	}

	t.engine = achievement.NewEngine(
		achievement.WithClock(t.now),
		achievement.WithLocation(t.location),
		achievement.WithUnlocked(unlocks),
	)

	rankerOpts := []tips.Option{tips.WithDisplayCounts(counts)}
	if t.rng != nil {
		rankerOpts = append(rankerOpts, tips.WithRand(t.rng))
	}
	t.ranker = tips.NewRanker(rankerOpts...)

	slog.Debug("Restored tracker state",
		"user_id", t.userID,
		"unlocked", len(unlocks),
		"tips_displayed", len(counts))
	return nil
}

// UserID returns the user this tracker serves.
func (t *Tracker) UserID() string {
	return t.userID
}

// ScanInput is a receipt as captured, before any estimate is attached.
type ScanInput struct {
	ImagePath   string
	VendorName  string
	Category    string
	Notes       string
	TotalAmount int64
}

// ScanResult is everything a scan produced.
type ScanResult struct {
	Receipt     model.Receipt
	Progress    model.UserProgress
	Validation  tax.Validation
	Estimate    tax.Result
	Unlocks     []model.UnlockEvent
	Suggestions []tips.Suggestion
}

// Scan records a receipt, updates progress and returns the unlocks and tips
// it earned. Nothing is persisted unless every step succeeds.
func (t *Tracker) Scan(ctx context.Context, input ScanInput) (*ScanResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	validation := tax.ValidateExpenseAmount(input.TotalAmount)
	if !validation.Valid {
		return nil, common.NewUserError(validation.Warning,
			fmt.Errorf("%w: %d", common.ErrInvalidAmount, input.TotalAmount))
	}

	profile, err := t.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	pct := tax.DeductionPercentage(input.Category)
	estimate, err := t.calculator.CalculateSavings(input.TotalAmount, *profile, pct)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate savings: %w", err)
	}

	now := t.now()
	receipt := model.Receipt{
		ID:                 t.newID(),
		CreatedAt:          now,
		LastUpdated:        now,
		ImagePath:          input.ImagePath,
		VendorName:         input.VendorName,
		Category:           input.Category,
		Notes:              input.Notes,
		TotalAmount:        input.TotalAmount,
		PotentialTaxSaving: estimate.PotentialSaving,
	}

	current, err := t.loadProgress(ctx)
	if err != nil {
		return nil, err
	}

	progress := t.engine.UpdateProgress(current, receipt)
	unlocks := t.engine.CheckUnlocks(progress)
	ids := make([]string, len(unlocks))
	for i, u := range unlocks {
		ids[i] = u.Achievement.ID
	}
	progress = progress.WithUnlocked(ids...)

	suggestions := t.ranker.Suggest(receipt)
	for _, s := range suggestions {
		t.ranker.MarkDisplayed(s.Tip.ID)
	}

	if err := t.persistScan(ctx, &receipt, &progress, unlocks, suggestions); err != nil {
		// The engine and ranker already moved on; bring them back in line with
		// what storage actually holds.
		if restoreErr := t.restore(ctx); restoreErr != nil {
			slog.Error("Failed to restore tracker state after failed scan",
				"user_id", t.userID,
				"error", restoreErr)
		}
		return nil, err
	}

	slog.Info("Scanned receipt",
		"user_id", t.userID,
		"receipt_id", receipt.ID,
		"amount", receipt.TotalAmount,
		"saving", receipt.PotentialTaxSaving,
		"unlocks", len(unlocks))

	return &ScanResult{
		Receipt:     receipt,
		Progress:    progress,
		Validation:  validation,
		Estimate:    estimate,
		Unlocks:     unlocks,
		Suggestions: suggestions,
	}, nil
}

func (t *Tracker) persistScan(ctx context.Context, receipt *model.Receipt, progress *model.UserProgress,
	unlocks []model.UnlockEvent, suggestions []tips.Suggestion,
) error {
	tx, err := t.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.SaveReceipt(ctx, t.userID, receipt); err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	if err = tx.SaveProgress(ctx, progress); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	for _, u := range unlocks {
		if err = tx.SaveAchievementUnlock(ctx, t.userID, u.Achievement.ID, u.UnlockedAt); err != nil {
			return fmt.Errorf("failed to save unlock of %s: %w", u.Achievement.ID, err)
		}
	}

	counts := t.ranker.DisplayCounts()
	for _, s := range suggestions {
		if err = tx.SaveTipDisplayCount(ctx, t.userID, s.Tip.ID, counts[s.Tip.ID]); err != nil {
			return fmt.Errorf("failed to save display count of %s: %w", s.Tip.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scan: %w", err)
	}
	return nil
}

func (t *Tracker) loadProfile(ctx context.Context) (*model.UserProfile, error) {
	profile, err := t.storage.GetProfile(ctx, t.userID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError("No tax profile found. Run 'tally profile set' first",
			fmt.Errorf("%w: %s", common.ErrProfileNotFound, t.userID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (t *Tracker) loadProgress(ctx context.Context) (model.UserProgress, error) {
	progress, err := t.storage.GetProgress(ctx, t.userID)
	if errors.Is(err, common.ErrNotFound) {
		return model.NewUserProgress(t.userID, t.now()), nil
	}
	if err != nil {
		return model.UserProgress{}, fmt.Errorf("failed to load progress: %w", err)
	}
	return *progress, nil
}

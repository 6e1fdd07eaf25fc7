// Package achievement evaluates scanning progress against a fixed catalog of
// milestones and maintains the streak arithmetic behind them.
//
// An Engine owns its catalog. Unlock flags change only through CheckUnlocks and
// never revert. Engines are not safe for concurrent mutating calls.
package achievement

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Engine evaluates progress snapshots against the achievement catalog.
type Engine struct {
	now      func() time.Time
	location *time.Location
	index    map[string]int
	entries  []model.Achievement
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the time zone used to truncate instants to calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithUnlocked restores unlock flags persisted from a previous engine.
// Unknown IDs are ignored.
func WithUnlocked(unlocked map[string]time.Time) Option {
	return func(e *Engine) {
		for id, at := range unlocked {
			i, ok := e.index[id]
			if !ok {
				continue
			}
			unlockedAt := at
			e.entries[i].Unlocked = true
			e.entries[i].UnlockedAt = &unlockedAt
		}
	}
}

// NewEngine creates an engine holding a fresh copy of the catalog.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		location: time.Local,
		entries:  defaultCatalog(),
	}
	e.index = make(map[string]int, len(e.entries))
	for i, a := range e.entries {
		e.index[a.ID] = i
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns a copy of every achievement in catalog order.
func (e *Engine) Catalog() []model.Achievement {
	out := make([]model.Achievement, len(e.entries))
	for i, a := range e.entries {
		out[i] = cloneAchievement(a)
	}
	return out
}

// CheckUnlocks unlocks every achievement whose threshold progress now meets and
// returns one event per unlock, in catalog order. Achievements already unlocked
// in the engine or listed in progress are skipped, so repeated calls with the
// same snapshot return nothing new.
func (e *Engine) CheckUnlocks(progress model.UserProgress) []model.UnlockEvent {
	now := e.now()

	var events []model.UnlockEvent
	for i := range e.entries {
		a := &e.entries[i]
		if a.Unlocked || progress.HasUnlocked(a.ID) {
			continue
		}
		if !thresholdMet(*a, progress) {
			continue
		}

		unlockedAt := now
		a.Unlocked = true
		a.UnlockedAt = &unlockedAt

		events = append(events, model.UnlockEvent{
			Achievement: cloneAchievement(*a),
			UnlockedAt:  now,
			Message:     UnlockMessage(a.Category),
		})

		slog.Debug("Achievement unlocked",
			"achievement_id", a.ID,
			"category", a.Category,
			"user_id", progress.UserID)
	}

	return events
}

func thresholdMet(a model.Achievement, p model.UserProgress) bool {
	switch a.Category {
	case model.AchievementScanning:
		return p.TotalReceiptsScanned >= a.Threshold
	case model.AchievementSavings:
		return p.TotalPotentialSavings >= a.Threshold
	case model.AchievementConsistency:
		return p.CurrentStreak >= a.Threshold
	case model.AchievementLearning:
		// TODO: unlock once a tips-read counter exists in UserProgress.
		return false
	default:
		return false
	}
}

// UpdateProgress returns the snapshot that results from scanning receipt now.
// Streaks count calendar days in the engine's location, not elapsed hours.
// current is not modified.
func (e *Engine) UpdateProgress(current model.UserProgress, receipt model.Receipt) model.UserProgress {
	now := e.now()

	streak := int64(1)
	if current.LastScanDate != nil {
		switch CalendarDaysBetween(*current.LastScanDate, now, e.location) {
		case 0:
			streak = current.CurrentStreak
		case 1:
			streak = current.CurrentStreak + 1
		}
	}

	next := current
	next.UnlockedAchievementIDs = slices.Clone(current.UnlockedAchievementIDs)
	next.TotalReceiptsScanned = current.TotalReceiptsScanned + 1
	next.TotalPotentialSavings = current.TotalPotentialSavings + receipt.PotentialTaxSaving
	next.CurrentStreak = streak
	next.LongestStreak = max(current.LongestStreak, streak)

	scannedAt := now
	next.LastScanDate = &scannedAt
	next.LastUpdated = now

	return next
}

// CalendarDaysBetween returns the number of calendar days from one instant to
// another after both are truncated to midnight in loc. It is negative when to
// falls on an earlier day.
func CalendarDaysBetween(from, to time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()

	// UTC days are always 24h, so DST in loc cannot skew the count.
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// NextAchievement returns the lowest-threshold locked achievement in category
// whose threshold exceeds currentValue.
func (e *Engine) NextAchievement(category model.AchievementCategory, currentValue int64) (model.Achievement, bool) {
	var candidates []model.Achievement
	for _, a := range e.entries {
		if a.Category == category && !a.Unlocked {
			candidates = append(candidates, a)
		}
	}
	slices.SortStableFunc(candidates, func(a, b model.Achievement) int {
		switch {
		case a.Threshold < b.Threshold:
			return -1
		case a.Threshold > b.Threshold:
			return 1
		}
		return 0
	})

	for _, a := range candidates {
		if a.Threshold > currentValue {
			return cloneAchievement(a), true
		}
	}
	return model.Achievement{}, false
}

// ProgressToNext returns how far currentValue is toward the next achievement in
// category as a whole percentage between 0 and 100.
func (e *Engine) ProgressToNext(category model.AchievementCategory, currentValue int64) (int, bool) {
	next, ok := e.NextAchievement(category, currentValue)
	if !ok || next.Threshold <= 0 {
		return 0, false
	}

	pct := math.Floor(float64(currentValue) / float64(next.Threshold) * 100)
	return int(max(0, min(100, pct))), true
}

// UnlockedAchievements returns the catalog entries whose IDs appear in ids.
func (e *Engine) UnlockedAchievements(ids []string) []model.Achievement {
	var out []model.Achievement
	for _, a := range e.entries {
		if slices.Contains(ids, a.ID) {
			out = append(out, cloneAchievement(a))
		}
	}
	return out
}

// UnlockState returns the unlock time of every achievement unlocked in this
// engine, keyed by ID, for persistence.
func (e *Engine) UnlockState() map[string]time.Time {
	state := make(map[string]time.Time)
	for _, a := range e.entries {
		if a.Unlocked && a.UnlockedAt != nil {
			state[a.ID] = *a.UnlockedAt
		}
	}
	return state
}

func cloneAchievement(a model.Achievement) model.Achievement {
	if a.UnlockedAt != nil {
		at := *a.UnlockedAt
		a.UnlockedAt = &at
	}
	return a
}

package model

import (
	"slices"
	"time"
)

// UserProgress is the aggregate the caller persists between scans.
type UserProgress struct {
	CreatedAt              time.Time
	LastUpdated            time.Time
	LastScanDate           *time.Time
	UserID                 string
	UnlockedAchievementIDs []string
	TotalReceiptsScanned   int64
	TotalPotentialSavings  int64
	CurrentStreak          int64
	LongestStreak          int64
}

// NewUserProgress returns an empty progress snapshot for userID.
func NewUserProgress(userID string, now time.Time) UserProgress {
	return UserProgress{
		UserID:                 userID,
		UnlockedAchievementIDs: []string{},
		CreatedAt:              now,
		LastUpdated:            now,
	}
}

// HasUnlocked reports whether id is recorded as unlocked.
func (p UserProgress) HasUnlocked(id string) bool {
	return slices.Contains(p.UnlockedAchievementIDs, id)
}

// WithUnlocked returns a copy of p with ids added to the unlocked set.
// Existing order is kept and duplicates are dropped.
func (p UserProgress) WithUnlocked(ids ...string) UserProgress {
	merged := make([]string, 0, len(p.UnlockedAchievementIDs)+len(ids))
	seen := make(map[string]bool, cap(merged))
	for _, id := range append(slices.Clone(p.UnlockedAchievementIDs), ids...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}
	p.UnlockedAchievementIDs = merged
	return p
}

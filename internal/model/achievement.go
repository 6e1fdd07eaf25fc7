package model

import "time"

// AchievementCategory determines which progress value a threshold is compared to.
type AchievementCategory string

const (
	// AchievementScanning thresholds count scanned receipts.
	AchievementScanning AchievementCategory = "scanning"
	// AchievementSavings thresholds are potential savings in cents.
	AchievementSavings AchievementCategory = "savings"
	// AchievementConsistency thresholds are streak lengths in days.
	AchievementConsistency AchievementCategory = "consistency"
	// AchievementLearning thresholds count tips read.
	AchievementLearning AchievementCategory = "learning"
)

// AchievementCategories lists the categories in display order.
var AchievementCategories = []AchievementCategory{
	AchievementScanning,
	AchievementSavings,
	AchievementConsistency,
	AchievementLearning,
}

// Achievement is a gamification milestone.
type Achievement struct {
	UnlockedAt  *time.Time
	ID          string
	Name        string
	Description string
	Category    AchievementCategory
	Icon        string
	Threshold   int64
	Unlocked    bool
}

// UnlockEvent is emitted once when an achievement unlocks.
type UnlockEvent struct {
	UnlockedAt  time.Time
	Message     string
	Achievement Achievement
}

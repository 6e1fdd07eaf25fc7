package achievement

import "github.com/Veraticus/tally/internal/model"

// Achievement IDs are persisted by callers and must never change.
const (
	IDFirstScan = "first-scan"
	IDScan10    = "scan-10"
	IDScan50    = "scan-50"
	IDScan100   = "scan-100"
	IDSave100   = "save-100"
	IDSave500   = "save-500"
	IDSave1000  = "save-1000"
	IDSave5000  = "save-5000"
	IDStreak3   = "streak-3"
	IDStreak7   = "streak-7"
	IDStreak30  = "streak-30"
	IDLearn5    = "learn-5"
	IDLearn20   = "learn-20"
)

var unlockMessages = map[model.AchievementCategory]string{
	model.AchievementScanning:    "🎉 Keep up the great tracking habits!",
	model.AchievementSavings:     "💰 You're building real tax savings!",
	model.AchievementConsistency: "🔥 Your consistency is paying off!",
	model.AchievementLearning:    "📚 Knowledge is power!",
}

const genericUnlockMessage = "🎉 Achievement unlocked!"

// UnlockMessage returns the celebration text shown for an unlock in category.
func UnlockMessage(category model.AchievementCategory) string {
	if msg, ok := unlockMessages[category]; ok {
		return msg
	}
	return genericUnlockMessage
}

// defaultCatalog returns the milestone set in display order. Savings
// thresholds are cents and consistency thresholds are days.
func defaultCatalog() []model.Achievement {
	return []model.Achievement{
		{ID: IDFirstScan, Name: "First Steps", Description: "Scan your first receipt", Category: model.AchievementScanning, Threshold: 1, Icon: "🎯"},
		{ID: IDScan10, Name: "Getting Started", Description: "Scan 10 receipts", Category: model.AchievementScanning, Threshold: 10, Icon: "📸"},
		{ID: IDScan50, Name: "Dedicated Tracker", Description: "Scan 50 receipts", Category: model.AchievementScanning, Threshold: 50, Icon: "📚"},
		{ID: IDScan100, Name: "Receipt Master", Description: "Scan 100 receipts", Category: model.AchievementScanning, Threshold: 100, Icon: "🏆"},

		{ID: IDSave100, Name: "First $100", Description: "Track $100 in potential tax savings", Category: model.AchievementSavings, Threshold: 10000, Icon: "💰"},
		{ID: IDSave500, Name: "Smart Saver", Description: "Track $500 in potential tax savings", Category: model.AchievementSavings, Threshold: 50000, Icon: "💵"},
		{ID: IDSave1000, Name: "Tax Champion", Description: "Track $1,000 in potential tax savings", Category: model.AchievementSavings, Threshold: 100000, Icon: "🌟"},
		{ID: IDSave5000, Name: "Deduction Legend", Description: "Track $5,000 in potential tax savings", Category: model.AchievementSavings, Threshold: 500000, Icon: "👑"},

		{ID: IDStreak3, Name: "Building Momentum", Description: "Scan receipts 3 days in a row", Category: model.AchievementConsistency, Threshold: 3, Icon: "🔥"},
		{ID: IDStreak7, Name: "Weekly Warrior", Description: "Scan receipts 7 days in a row", Category: model.AchievementConsistency, Threshold: 7, Icon: "💪"},
		{ID: IDStreak30, Name: "Monthly Master", Description: "Scan receipts 30 days in a row", Category: model.AchievementConsistency, Threshold: 30, Icon: "⭐"},

		{ID: IDLearn5, Name: "Tax Tip Explorer", Description: "Read 5 educational tips", Category: model.AchievementLearning, Threshold: 5, Icon: "💡"},
		{ID: IDLearn20, Name: "Deduction Detective", Description: "Read 20 educational tips", Category: model.AchievementLearning, Threshold: 20, Icon: "🔍"},
	}
}

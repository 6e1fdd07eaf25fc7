// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Storage defines the contract for our persistence layer.
//
// Progress snapshots are stored verbatim. Catalog state (achievement unlocks and
// tip display counters) is stored per user and only ever grows until reset.
type Storage interface {
	// Receipt operations
	SaveReceipt(ctx context.Context, userID string, receipt *model.Receipt) error
	GetReceipt(ctx context.Context, id string) (*model.Receipt, error)
	ListReceipts(ctx context.Context, userID string, limit int) ([]model.Receipt, error)

	// Profile operations
	SaveProfile(ctx context.Context, userID string, profile *model.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)

	// Progress operations
	SaveProgress(ctx context.Context, progress *model.UserProgress) error
	GetProgress(ctx context.Context, userID string) (*model.UserProgress, error)

	// Catalog state operations
	SaveAchievementUnlock(ctx context.Context, userID, achievementID string, unlockedAt time.Time) error
	GetAchievementUnlocks(ctx context.Context, userID string) (map[string]time.Time, error)
	SaveTipDisplayCount(ctx context.Context, userID, tipID string, count int) error
	GetTipDisplayCounts(ctx context.Context, userID string) (map[string]int, error)
	ResetTipDisplayCounts(ctx context.Context, userID string) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

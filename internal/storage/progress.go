package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// SaveProgress stores a progress snapshot exactly as given.
func (s *SQLiteStorage) SaveProgress(ctx context.Context, progress *model.UserProgress) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProgress(progress); err != nil {
		return err
	}
	return s.saveProgressTx(ctx, s.db, progress)
}

func (s *SQLiteStorage) saveProgressTx(ctx context.Context, q queryable, progress *model.UserProgress) error {
	ids := progress.UnlockedAchievementIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal unlocked achievements: %w", err)
	}

	var lastScan sql.NullTime
	if progress.LastScanDate != nil {
		lastScan = sql.NullTime{Time: *progress.LastScanDate, Valid: true}
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO user_progress (
			user_id, total_receipts_scanned, total_potential_savings, current_streak,
			longest_streak, last_scan_date, unlocked_achievement_ids, created_at, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_receipts_scanned = excluded.total_receipts_scanned,
			total_potential_savings = excluded.total_potential_savings,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_scan_date = excluded.last_scan_date,
			unlocked_achievement_ids = excluded.unlocked_achievement_ids,
			created_at = excluded.created_at,
			last_updated = excluded.last_updated
	`, progress.UserID, progress.TotalReceiptsScanned, progress.TotalPotentialSavings,
		progress.CurrentStreak, progress.LongestStreak, lastScan, string(idsJSON),
		progress.CreatedAt, progress.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// GetProgress retrieves a user's progress snapshot.
func (s *SQLiteStorage) GetProgress(ctx context.Context, userID string) (*model.UserProgress, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getProgressTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getProgressTx(ctx context.Context, q queryable, userID string) (*model.UserProgress, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var (
		progress model.UserProgress
		lastScan sql.NullTime
		idsJSON  string
	)
	err := q.QueryRowContext(ctx, `
		SELECT user_id, total_receipts_scanned, total_potential_savings, current_streak,
		       longest_streak, last_scan_date, unlocked_achievement_ids, created_at, last_updated
		FROM user_progress
		WHERE user_id = ?
	`, userID).Scan(
		&progress.UserID,
		&progress.TotalReceiptsScanned,
		&progress.TotalPotentialSavings,
		&progress.CurrentStreak,
		&progress.LongestStreak,
		&lastScan,
		&idsJSON,
		&progress.CreatedAt,
		&progress.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: progress for %s", common.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if lastScan.Valid {
		scanned := lastScan.Time
		progress.LastScanDate = &scanned
	}
	if err := json.Unmarshal([]byte(idsJSON), &progress.UnlockedAchievementIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unlocked achievements: %w", err)
	}
	if progress.UnlockedAchievementIDs == nil {
		progress.UnlockedAchievementIDs = []string{}
	}

	return &progress, nil
}

package storage

import (
	"context"
	"fmt"
	"time"
)

// SaveAchievementUnlock records that a user unlocked an achievement. The first
// recorded unlock time is kept.
func (s *SQLiteStorage) SaveAchievementUnlock(ctx context.Context, userID, achievementID string, unlockedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(achievementID, "achievementID"); err != nil {
		return err
	}
	return s.saveAchievementUnlockTx(ctx, s.db, userID, achievementID, unlockedAt)
}

func (s *SQLiteStorage) saveAchievementUnlockTx(ctx context.Context, q queryable, userID, achievementID string, unlockedAt time.Time) error {
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO achievement_unlocks (user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, achievement_id) DO NOTHING
	`, userID, achievementID, unlockedAt)
	if err != nil {
		return fmt.Errorf("failed to save achievement unlock: %w", err)
	}
	return nil
}

// GetAchievementUnlocks returns a user's unlock times keyed by achievement ID.
func (s *SQLiteStorage) GetAchievementUnlocks(ctx context.Context, userID string) (map[string]time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getAchievementUnlocksTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getAchievementUnlocksTx(ctx context.Context, q queryable, userID string) (map[string]time.Time, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT achievement_id, unlocked_at
		FROM achievement_unlocks
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievement unlocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	unlocks := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("failed to scan achievement unlock: %w", err)
		}
		unlocks[id] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievement unlocks: %w", err)
	}

	return unlocks, nil
}

// SaveTipDisplayCount stores a tip's display counter. Counters never decrease
// except through ResetTipDisplayCounts.
func (s *SQLiteStorage) SaveTipDisplayCount(ctx context.Context, userID, tipID string, count int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDisplayCount(tipID, count); err != nil {
		return err
	}
	return s.saveTipDisplayCountTx(ctx, s.db, userID, tipID, count)
}

func (s *SQLiteStorage) saveTipDisplayCountTx(ctx context.Context, q queryable, userID, tipID string, count int) error {
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO tip_displays (user_id, tip_id, display_count, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, tip_id) DO UPDATE SET
			display_count = MAX(display_count, excluded.display_count),
			last_updated = excluded.last_updated
	`, userID, tipID, count, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save tip display count: %w", err)
	}
	return nil
}

// GetTipDisplayCounts returns a user's tip display counters keyed by tip ID.
func (s *SQLiteStorage) GetTipDisplayCounts(ctx context.Context, userID string) (map[string]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getTipDisplayCountsTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getTipDisplayCountsTx(ctx context.Context, q queryable, userID string) (map[string]int, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT tip_id, display_count
		FROM tip_displays
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tip displays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tip display: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tip displays: %w", err)
	}

	return counts, nil
}

// ResetTipDisplayCounts clears every display counter for a user.
func (s *SQLiteStorage) ResetTipDisplayCounts(ctx context.Context, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.resetTipDisplayCountsTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) resetTipDisplayCountsTx(ctx context.Context, q queryable, userID string) error {
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM tip_displays WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to reset tip displays: %w", err)
	}
	return nil
}

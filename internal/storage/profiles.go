package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// SaveProfile creates or replaces a user's tax profile.
func (s *SQLiteStorage) SaveProfile(ctx context.Context, userID string, profile *model.UserProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	return s.saveProfileTx(ctx, s.db, userID, profile)
}

func (s *SQLiteStorage) saveProfileTx(ctx context.Context, q queryable, userID string, profile *model.UserProfile) error {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.LastUpdated.IsZero() {
		profile.LastUpdated = now
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, income_bracket, filing_status, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			income_bracket = excluded.income_bracket,
			filing_status = excluded.filing_status,
			last_updated = excluded.last_updated
	`, userID, string(profile.IncomeBracket), string(profile.FilingStatus), profile.CreatedAt, profile.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a user's tax profile.
func (s *SQLiteStorage) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getProfileTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getProfileTx(ctx context.Context, q queryable, userID string) (*model.UserProfile, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var (
		profile model.UserProfile
		bracket string
		status  string
	)
	err := q.QueryRowContext(ctx, `
		SELECT income_bracket, filing_status, created_at, last_updated
		FROM user_profiles
		WHERE user_id = ?
	`, userID).Scan(&bracket, &status, &profile.CreatedAt, &profile.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: profile for %s", common.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.IncomeBracket = model.IncomeBracket(bracket)
	profile.FilingStatus = model.FilingStatus(status)
	return &profile, nil
}

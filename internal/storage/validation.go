// Package storage provides the data persistence layer for the tally application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidReceipt  = errors.New("invalid receipt")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrInvalidProgress = errors.New("invalid progress")
	ErrInvalidCount    = errors.New("invalid display count")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateReceipt validates a single receipt.
func validateReceipt(receipt *model.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("%w: receipt", ErrNilParameter)
	}
	if strings.TrimSpace(receipt.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidReceipt)
	}
	if receipt.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing creation time", ErrInvalidReceipt)
	}
	if receipt.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount cannot be negative", ErrInvalidReceipt)
	}
	if receipt.PotentialTaxSaving < 0 {
		return fmt.Errorf("%w: potential tax saving cannot be negative", ErrInvalidReceipt)
	}
	return nil
}

// validateProfile validates a tax profile.
func validateProfile(profile *model.UserProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if !profile.IncomeBracket.IsValid() {
		return fmt.Errorf("%w: unknown income bracket %q", ErrInvalidProfile, profile.IncomeBracket)
	}
	if !profile.FilingStatus.IsValid() {
		return fmt.Errorf("%w: unknown filing status %q", ErrInvalidProfile, profile.FilingStatus)
	}
	return nil
}

// validateProgress validates a progress snapshot.
func validateProgress(progress *model.UserProgress) error {
	if progress == nil {
		return fmt.Errorf("%w: progress", ErrNilParameter)
	}
	if strings.TrimSpace(progress.UserID) == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidProgress)
	}
	if progress.TotalReceiptsScanned < 0 || progress.TotalPotentialSavings < 0 || progress.CurrentStreak < 0 {
		return fmt.Errorf("%w: counters cannot be negative", ErrInvalidProgress)
	}
	if progress.LongestStreak < progress.CurrentStreak {
		return fmt.Errorf("%w: longest streak %d is shorter than current streak %d",
			ErrInvalidProgress, progress.LongestStreak, progress.CurrentStreak)
	}
	return nil
}

// validateDisplayCount validates a tip display counter.
func validateDisplayCount(tipID string, count int) error {
	if err := validateString(tipID, "tipID"); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	return nil
}

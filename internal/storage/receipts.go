package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// DefaultReceiptLimit caps ListReceipts when no limit is given.
const DefaultReceiptLimit = 50

// SaveReceipt stores a newly scanned receipt. Receipts are immutable, so saving
// an existing ID fails with common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveReceipt(ctx context.Context, userID string, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}
	return s.saveReceiptTx(ctx, s.db, userID, receipt)
}

func (s *SQLiteStorage) saveReceiptTx(ctx context.Context, q queryable, userID string, receipt *model.Receipt) error {
	lastUpdated := receipt.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = receipt.CreatedAt
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO receipts (
			id, user_id, created_at, last_updated, image_path, vendor_name,
			total_amount, potential_tax_saving, category, is_verified, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, receipt.ID, userID, receipt.CreatedAt, lastUpdated, receipt.ImagePath, receipt.VendorName,
		receipt.TotalAmount, receipt.PotentialTaxSaving, receipt.Category, receipt.Verified, receipt.Notes)
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check saved receipt: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: receipt %s", common.ErrDuplicateEntry, receipt.ID)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID.
func (s *SQLiteStorage) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getReceiptTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getReceiptTx(ctx context.Context, q queryable, id string) (*model.Receipt, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, created_at, last_updated, image_path, vendor_name,
		       total_amount, potential_tax_saving, category, is_verified, notes
		FROM receipts
		WHERE id = ?
	`, id)

	receipt, err := scanReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: receipt %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns a user's most recent receipts, newest first.
func (s *SQLiteStorage) ListReceipts(ctx context.Context, userID string, limit int) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listReceiptsTx(ctx, s.db, userID, limit)
}

func (s *SQLiteStorage) listReceiptsTx(ctx context.Context, q queryable, userID string, limit int) ([]model.Receipt, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultReceiptLimit
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, created_at, last_updated, image_path, vendor_name,
		       total_amount, potential_tax_saving, category, is_verified, notes
		FROM receipts
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.Receipt
	for rows.Next() {
		receipt, scanErr := scanReceipt(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", scanErr)
		}
		receipts = append(receipts, *receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	return receipts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row scanner) (*model.Receipt, error) {
	var r model.Receipt
	err := row.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.LastUpdated,
		&r.ImagePath,
		&r.VendorName,
		&r.TotalAmount,
		&r.PotentialTaxSaving,
		&r.Category,
		&r.Verified,
		&r.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

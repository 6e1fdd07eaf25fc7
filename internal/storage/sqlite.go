package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

var _ service.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) SaveReceipt(ctx context.Context, userID string, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}
	return t.storage.saveReceiptTx(ctx, t.tx, userID, receipt)
}

func (t *sqliteTransaction) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return t.storage.getReceiptTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListReceipts(ctx context.Context, userID string, limit int) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listReceiptsTx(ctx, t.tx, userID, limit)
}

func (t *sqliteTransaction) SaveProfile(ctx context.Context, userID string, profile *model.UserProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	return t.storage.saveProfileTx(ctx, t.tx, userID, profile)
}

func (t *sqliteTransaction) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getProfileTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) SaveProgress(ctx context.Context, progress *model.UserProgress) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProgress(progress); err != nil {
		return err
	}
	return t.storage.saveProgressTx(ctx, t.tx, progress)
}

func (t *sqliteTransaction) GetProgress(ctx context.Context, userID string) (*model.UserProgress, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getProgressTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) SaveAchievementUnlock(ctx context.Context, userID, achievementID string, unlockedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(achievementID, "achievementID"); err != nil {
		return err
	}
	return t.storage.saveAchievementUnlockTx(ctx, t.tx, userID, achievementID, unlockedAt)
}

func (t *sqliteTransaction) GetAchievementUnlocks(ctx context.Context, userID string) (map[string]time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getAchievementUnlocksTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) SaveTipDisplayCount(ctx context.Context, userID, tipID string, count int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDisplayCount(tipID, count); err != nil {
		return err
	}
	return t.storage.saveTipDisplayCountTx(ctx, t.tx, userID, tipID, count)
}

func (t *sqliteTransaction) GetTipDisplayCounts(ctx context.Context, userID string) (map[string]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getTipDisplayCountsTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) ResetTipDisplayCounts(ctx context.Context, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.resetTipDisplayCountsTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/Veraticus/tally/internal/tracker"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// runWithTracker opens storage, builds a tracker for the configured user and
// closes storage once fn returns.
func runWithTracker(cmd *cobra.Command, fn func(context.Context, *tracker.Tracker) error) error {
	ctx := cmd.Context()

	cfg, err := config.LoadTaxConfiguration(time.Now())
	if err != nil {
		return err
	}
	loc, err := config.StreakLocation()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	t, err := tracker.New(ctx, store, cfg, config.UserID(), tracker.WithLocation(loc))
	if err != nil {
		return err
	}
	return fn(ctx, t)
}

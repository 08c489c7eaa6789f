package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"wastewise-backend/internal/logger"
)

var log = logger.New("database")

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Infof("connecting to database (url length %d)", len(dbURL))

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	log.Infof("database connection established")
	return db, nil
}

var migrations = []string{
	// Append-only log of dispatch activity
	`CREATE TABLE IF NOT EXISTS trip_events (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		trip_id TEXT,
		bin_id TEXT,
		driver_id TEXT,
		station_id TEXT,
		status TEXT,
		bin_fill INT,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trip_events_trip_id ON trip_events(trip_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trip_events_created_at ON trip_events(created_at DESC)`,

	// Historical collection totals per day
	`CREATE TABLE IF NOT EXISTS daily_waste (
		date DATE PRIMARY KEY,
		total_organic_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_recyclable_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_hazardous_kg DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
}

func Migrate(db *sqlx.DB) error {
	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	log.Infof("applied %d migrations", len(migrations))
	return nil
}

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"wastewise-backend/internal/models"
)

// History reads daily collection totals from the daily_waste table.
type History struct {
	db *sqlx.DB
}

func NewHistory(db *sqlx.DB) *History {
	return &History{db: db}
}

func (h *History) Daily(ctx context.Context) ([]models.DailyWaste, error) {
	days := []models.DailyWaste{}
	query := `
		SELECT to_char(date, 'YYYY-MM-DD') AS date,
			total_organic_kg, total_recyclable_kg, total_hazardous_kg
		FROM daily_waste
		ORDER BY date ASC
	`
	if err := h.db.SelectContext(ctx, &days, query); err != nil {
		return nil, fmt.Errorf("query daily waste: %w", err)
	}
	return days, nil
}

// SeedHistory loads days into daily_waste when the table is empty.
func SeedHistory(ctx context.Context, db *sqlx.DB, days []models.DailyWaste) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM daily_waste"); err != nil {
		return err
	}
	if count > 0 {
		log.Infof("daily_waste already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO daily_waste (date, total_organic_kg, total_recyclable_kg, total_hazardous_kg)
		VALUES (:date, :total_organic_kg, :total_recyclable_kg, :total_hazardous_kg)
	`
	for _, d := range days {
		if _, err := tx.NamedExecContext(ctx, query, d); err != nil {
			return fmt.Errorf("insert day %s: %w", d.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Infof("seeded %d days of waste history", len(days))
	return nil
}

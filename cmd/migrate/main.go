package main

import (
	"context"
	"flag"
	"os"
	"time"

	"wastewise-backend/internal/config"
	"wastewise-backend/internal/database"
	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/services"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	historyPath := flag.String("history", "", "CSV of daily waste totals to load (defaults to data.history_file)")
	flag.Parse()

	log := logger.New("migrate")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}
	logger.Configure(logger.Options{Level: cfg.Logging.Level})

	if cfg.Database.URL == "" {
		log.Errorf("DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Infof("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Errorf("Migration failed: %v", err)
		os.Exit(1)
	}
	log.Infof("Schema migration completed")

	path := *historyPath
	if path == "" {
		path = cfg.Data.HistoryFile
	}
	if path == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	days, err := services.NewCSVHistory(path).Daily(ctx)
	if err != nil {
		log.Warnf("Skipping history import: %v", err)
		return
	}
	if err := database.SeedHistory(ctx, db, days); err != nil {
		log.Errorf("History import failed: %v", err)
		os.Exit(1)
	}

	summary := services.Summarize(days)
	log.Infof("Loaded %d days of history from %s (avg %.1f kg/day)", summary.Days, path, summary.AvgDailyTotalKg)
}

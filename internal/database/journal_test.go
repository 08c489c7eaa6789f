package database

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewise-backend/internal/models"
)

func TestNewTripEventFromTrip(t *testing.T) {
	at := time.Date(2025, 9, 13, 9, 30, 0, 0, time.UTC)
	trip := models.Trip{ID: "TRP-001", BinID: "B1", DriverID: "D1", StationID: "S1", Status: models.TripAssigned}
	bin := models.Bin{ID: "B1", Fill: 25}

	row, err := NewTripEvent(models.Event{Type: models.EventTripAssigned, Trip: &trip, Bin: &bin, At: at})
	require.NoError(t, err)
	assert.Equal(t, models.EventTripAssigned, row.EventType)
	require.NotNil(t, row.TripID)
	assert.Equal(t, "TRP-001", *row.TripID)
	assert.Equal(t, "D1", *row.DriverID)
	assert.Equal(t, 25, *row.BinFill)
	assert.Equal(t, at, row.CreatedAt)

	var decoded models.Event
	require.NoError(t, json.Unmarshal([]byte(row.Payload), &decoded))
	assert.Equal(t, "TRP-001", decoded.Trip.ID)
}

func TestNewTripEventBinOnly(t *testing.T) {
	row, err := NewTripEvent(models.Event{Type: models.EventBinUpdated, Bin: &models.Bin{ID: "B2", Fill: 91}})
	require.NoError(t, err)
	assert.Nil(t, row.TripID)
	assert.Equal(t, "B2", *row.BinID)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestJournalDropsWhenFull(t *testing.T) {
	j := NewJournal(nil, 1)
	j.HandleEvent(models.Event{Type: models.EventBinUpdated})
	j.HandleEvent(models.Event{Type: models.EventBinUpdated})
	assert.Len(t, j.events, 1)
}

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := Connect(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestJournalRecordAndHistory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_, err := db.Exec("DELETE FROM trip_events WHERE trip_id = 'TRP-TEST'")
	require.NoError(t, err)

	j := NewJournal(db, 8)
	trip := models.Trip{ID: "TRP-TEST", BinID: "B1", DriverID: "D1", StationID: "S1", Status: models.TripAssigned}
	require.NoError(t, j.Record(ctx, models.Event{Type: models.EventTripAssigned, Trip: &trip, At: time.Now().Add(-time.Second)}))
	trip.Status = models.TripCompleted
	require.NoError(t, j.Record(ctx, models.Event{Type: models.EventTripUpdated, Trip: &trip, At: time.Now()}))

	events, err := j.TripHistory(ctx, "TRP-TEST")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventTripAssigned, events[0].EventType)
	assert.Equal(t, models.TripCompleted, *events[1].Status)
}

func TestJournalRunDrainsOnCancel(t *testing.T) {
	db := testDB(t)
	_, err := db.Exec("DELETE FROM trip_events WHERE trip_id = 'TRP-RUN'")
	require.NoError(t, err)

	j := NewJournal(db, 8)
	trip := models.Trip{ID: "TRP-RUN", Status: models.TripAssigned}
	j.HandleEvent(models.Event{Type: models.EventTripAssigned, Trip: &trip, At: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.Run(ctx)

	events, err := j.TripHistory(context.Background(), "TRP-RUN")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestHistorySeedAndRead(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_, err := db.Exec("DELETE FROM daily_waste")
	require.NoError(t, err)

	days := []models.DailyWaste{
		{Date: "2025-09-01", OrganicKg: 120, RecyclableKg: 80, HazardousKg: 20},
		{Date: "2025-09-02", OrganicKg: 50, RecyclableKg: 30, HazardousKg: 10},
	}
	require.NoError(t, SeedHistory(ctx, db, days))
	require.NoError(t, SeedHistory(ctx, db, days), "second seed is a no-op")

	got, err := NewHistory(db).Daily(ctx)
	require.NoError(t, err)
	assert.Equal(t, days, got)
}

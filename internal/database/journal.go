package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/models"
)

// TripEvent is one row of the trip_events table.
type TripEvent struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventType string    `db:"event_type" json:"type"`
	TripID    *string   `db:"trip_id" json:"tripId,omitempty"`
	BinID     *string   `db:"bin_id" json:"binId,omitempty"`
	DriverID  *string   `db:"driver_id" json:"driverId,omitempty"`
	StationID *string   `db:"station_id" json:"stationId,omitempty"`
	Status    *string   `db:"status" json:"status,omitempty"`
	BinFill   *int      `db:"bin_fill" json:"binFill,omitempty"`
	Payload   string    `db:"payload" json:"-"` // JSON of the models.Event
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Event returns the stored event document.
func (e TripEvent) Event() json.RawMessage {
	return json.RawMessage(e.Payload)
}

// NewTripEvent flattens a registry event into a journal row.
func NewTripEvent(ev models.Event) (TripEvent, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return TripEvent{}, fmt.Errorf("encode event: %w", err)
	}
	row := TripEvent{
		ID:        uuid.New(),
		EventType: ev.Type,
		Payload:   string(payload),
		CreatedAt: ev.At,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	if ev.Trip != nil {
		row.TripID = &ev.Trip.ID
		row.BinID = &ev.Trip.BinID
		row.DriverID = &ev.Trip.DriverID
		row.StationID = &ev.Trip.StationID
		row.Status = &ev.Trip.Status
	}
	if ev.Bin != nil {
		row.BinID = &ev.Bin.ID
		row.BinFill = &ev.Bin.Fill
	}
	return row, nil
}

// Journal writes registry events to Postgres from a background worker so
// that a slow database never holds up dispatching.
type Journal struct {
	db     *sqlx.DB
	events chan models.Event
	log    logger.Logger
}

func NewJournal(db *sqlx.DB, buffer int) *Journal {
	if buffer <= 0 {
		buffer = 256
	}
	return &Journal{
		db:     db,
		events: make(chan models.Event, buffer),
		log:    logger.New("journal"),
	}
}

// HandleEvent queues an event. Events are dropped when the queue is full.
func (j *Journal) HandleEvent(ev models.Event) {
	select {
	case j.events <- ev:
	default:
		j.log.Warnf("journal queue full, dropping %s event", ev.Type)
	}
}

// Run writes queued events until ctx is cancelled, then drains what is left.
func (j *Journal) Run(ctx context.Context) {
	for {
		select {
		case ev := <-j.events:
			j.write(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-j.events:
					j.write(ev)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) write(ev models.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.Record(ctx, ev); err != nil {
		j.log.Errorf("journal write failed: %v", err)
	}
}

// Record inserts one event.
func (j *Journal) Record(ctx context.Context, ev models.Event) error {
	row, err := NewTripEvent(ev)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO trip_events (id, event_type, trip_id, bin_id, driver_id, station_id, status, bin_fill, payload, created_at)
		VALUES (:id, :event_type, :trip_id, :bin_id, :driver_id, :station_id, :status, :bin_fill, :payload, :created_at)
	`
	if _, err := j.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert trip event: %w", err)
	}
	return nil
}

// TripHistory returns the journal rows of one trip, oldest first.
func (j *Journal) TripHistory(ctx context.Context, tripID string) ([]TripEvent, error) {
	events := []TripEvent{}
	query := `SELECT * FROM trip_events WHERE trip_id = $1 ORDER BY created_at ASC`
	if err := j.db.SelectContext(ctx, &events, query, tripID); err != nil {
		return nil, fmt.Errorf("query trip events: %w", err)
	}
	return events, nil
}

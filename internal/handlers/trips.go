package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wastewise-backend/internal/database"
	"wastewise-backend/internal/metrics"
	"wastewise-backend/internal/models"
	"wastewise-backend/internal/registry"
	"wastewise-backend/pkg/utils"
)

// DispatchRecorder counts dispatch outcomes.
type DispatchRecorder interface {
	RecordDispatch(result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordDispatch(string) {}

func GetTrips(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, reg.Trips())
	}
}

// Dispatch handles POST /api/dispatch
func Dispatch(reg *registry.Registry, rec DispatchRecorder) http.HandlerFunc {
	if rec == nil {
		rec = nopRecorder{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.DispatchRequest
		if err := decodeJSON(r, &req); err != nil {
			rec.RecordDispatch(metrics.ResultInvalid)
			writeError(w, err, http.StatusBadRequest, MsgInvalidDispatch)
			return
		}

		trip, err := reg.Dispatch(req.BinID, req.DriverID, req.StationID)
		if err != nil {
			rec.RecordDispatch(dispatchResult(err))
			writeError(w, err, http.StatusBadRequest, MsgInvalidDispatch)
			return
		}

		rec.RecordDispatch(metrics.ResultAssigned)
		utils.Success(w, trip)
	}
}

func dispatchResult(err error) string {
	var nf *registry.NotFoundError
	var conflict *registry.ConflictError
	switch {
	case errors.As(err, &nf):
		return metrics.ResultNotFound
	case errors.As(err, &conflict):
		return metrics.ResultConflict
	default:
		return metrics.ResultError
	}
}

// UpdateTrip handles PATCH /api/trips/{id}
func UpdateTrip(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateTripRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, http.StatusNotFound, MsgNotFound)
			return
		}

		trip, err := reg.UpdateTripStatus(chi.URLParam(r, "id"), req.Status)
		if err != nil {
			writeError(w, err, http.StatusNotFound, MsgNotFound)
			return
		}
		utils.Success(w, trip)
	}
}

// TripEventSource reads the journal of one trip, oldest first.
type TripEventSource interface {
	TripHistory(ctx context.Context, tripID string) ([]database.TripEvent, error)
}

type tripEventResponse struct {
	database.TripEvent
	Event json.RawMessage `json:"event"`
}

// GetTripEvents handles GET /api/trips/{id}/events
func GetTripEvents(reg *registry.Registry, journal TripEventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")
		if _, err := reg.Trip(tripID); err != nil {
			writeError(w, err, http.StatusNotFound, MsgNotFound)
			return
		}

		rows, err := journal.TripHistory(r.Context(), tripID)
		if err != nil {
			log.Errorf("load journal for %s: %v", tripID, err)
			utils.Error(w, http.StatusInternalServerError, MsgInternal)
			return
		}

		out := make([]tripEventResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, tripEventResponse{TripEvent: row, Event: row.Event()})
		}
		utils.Success(w, out)
	}
}

package models

const (
	TripAssigned  = "Assigned"
	TripEnRoute   = "EnRoute"
	TripCollected = "Collected"
	TripCompleted = "Completed"
)

// TripStatuses lists the trip lifecycle in order.
var TripStatuses = []string{TripAssigned, TripEnRoute, TripCollected, TripCompleted}

// Trip is one collection job. Driver and Station are copies taken at
// dispatch time and never follow later changes to the originals.
type Trip struct {
	ID        string  `json:"id"`
	BinID     string  `json:"binId"`
	Location  string  `json:"location"`
	DriverID  string  `json:"driverId"`
	Driver    Driver  `json:"driver"`
	StationID string  `json:"stationId"`
	Station   Station `json:"station"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"createdAt"` // Unix milliseconds
}

// DispatchRequest is the request body for POST /api/dispatch
type DispatchRequest struct {
	BinID     string `json:"binId" validate:"required"`
	DriverID  string `json:"driverId" validate:"required"`
	StationID string `json:"stationId" validate:"required"`
}

// UpdateTripRequest is the request body for PATCH /api/trips/{id}
type UpdateTripRequest struct {
	Status string `json:"status" validate:"required"`
}

package models

import "time"

const (
	EventTripAssigned = "trip_assigned"
	EventTripUpdated  = "trip_updated"
	EventBinUpdated   = "bin_updated"
)

// Event describes a committed change to dispatch state.
type Event struct {
	Type   string    `json:"type"`
	Trip   *Trip     `json:"trip,omitempty"`
	Bin    *Bin      `json:"bin,omitempty"`
	Driver *Driver   `json:"driver,omitempty"`
	At     time.Time `json:"at"`
}

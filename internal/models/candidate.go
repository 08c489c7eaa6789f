package models

// DriverCandidate is an available driver ranked by distance to a bin.
type DriverCandidate struct {
	Driver
	DistanceKm float64 `json:"distanceKm"`
}

// StationCandidate is a compatible station ranked by distance to a bin.
type StationCandidate struct {
	Station
	DistanceKm float64 `json:"distanceKm"`
}

// CandidatesResponse is returned by GET /api/bins/{id}/candidates
type CandidatesResponse struct {
	Bin      Bin                `json:"bin"`
	Eligible bool               `json:"eligible"`
	Drivers  []DriverCandidate  `json:"drivers"`
	Stations []StationCandidate `json:"stations"`
}

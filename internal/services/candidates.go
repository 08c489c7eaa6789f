package services

import (
	"sort"

	"wastewise-backend/internal/models"
)

// StationGroup returns the station group key for a bin type. Unknown types
// fall back to recyclables.
func StationGroup(binType string) string {
	for _, t := range models.WasteTypes {
		if t == binType {
			return binType
		}
	}
	return models.WasteRecyclable
}

// RankDrivers returns the available drivers ordered by distance to the bin,
// nearest first. Ties keep their input order.
func RankDrivers(bin models.Bin, drivers []models.Driver) []models.DriverCandidate {
	out := make([]models.DriverCandidate, 0, len(drivers))
	for _, d := range drivers {
		if !d.IsAvailable() {
			continue
		}
		out = append(out, models.DriverCandidate{
			Driver:     d,
			DistanceKm: GeoDistance(bin.Lat, bin.Lon, d.Lat, d.Lon),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// RankStations returns the stations accepting the bin's waste type ordered by
// distance to the bin, nearest first. Ties keep their input order.
func RankStations(bin models.Bin, stations models.StationsByType) []models.StationCandidate {
	group := stations[StationGroup(bin.Type)]
	out := make([]models.StationCandidate, 0, len(group))
	for _, s := range group {
		out = append(out, models.StationCandidate{
			Station:    s,
			DistanceKm: GeoDistance(bin.Lat, bin.Lon, s.Lat, s.Lon),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// SelectCandidates ranks drivers and stations for a bin.
func SelectCandidates(bin models.Bin, drivers []models.Driver, stations models.StationsByType) models.CandidatesResponse {
	return models.CandidatesResponse{
		Bin:      bin,
		Eligible: IsEligible(bin),
		Drivers:  RankDrivers(bin, drivers),
		Stations: RankStations(bin, stations),
	}
}

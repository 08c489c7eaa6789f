package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewise-backend/internal/models"
)

func bin(typ string) models.Bin {
	return models.Bin{ID: "B1", Lat: 20.27, Lon: 85.84, Fill: 85, Type: typ}
}

func TestRankDriversFiltersAndSorts(t *testing.T) {
	drivers := []models.Driver{
		{ID: "far", Lat: 20.40, Lon: 85.90, Status: models.DriverAvailable},
		{ID: "busy", Lat: 20.27, Lon: 85.84, Status: models.DriverOnTrip},
		{ID: "near", Lat: 20.28, Lon: 85.84, Status: models.DriverAvailable},
	}
	got := RankDrivers(bin(models.WasteOrganic), drivers)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID)
	assert.Equal(t, "far", got[1].ID)
	assert.InDelta(t, 1.112, got[0].DistanceKm, 0.001)
	assert.Less(t, got[0].DistanceKm, got[1].DistanceKm)
}

func TestRankDriversStableOnTies(t *testing.T) {
	drivers := []models.Driver{
		{ID: "first", Lat: 20.28, Lon: 85.84, Status: models.DriverAvailable},
		{ID: "second", Lat: 20.28, Lon: 85.84, Status: models.DriverAvailable},
		{ID: "third", Lat: 20.28, Lon: 85.84, Status: models.DriverAvailable},
	}
	got := RankDrivers(bin(models.WasteOrganic), drivers)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestRankDriversEmpty(t *testing.T) {
	got := RankDrivers(bin(models.WasteOrganic), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = RankDrivers(bin(models.WasteOrganic), []models.Driver{{ID: "busy", Status: models.DriverOnTrip}})
	assert.Empty(t, got)
}

func stations() models.StationsByType {
	return models.StationsByType{
		models.WasteOrganic: {
			{ID: "ORG-far", Lat: 20.30, Lon: 85.87},
			{ID: "ORG-near", Lat: 20.265, Lon: 85.8258},
		},
		models.WasteRecyclable: {
			{ID: "REC-1", Lat: 20.3178, Lon: 85.825},
		},
	}
}

func TestRankStationsMatchesType(t *testing.T) {
	got := RankStations(bin(models.WasteOrganic), stations())
	require.Len(t, got, 2)
	assert.Equal(t, "ORG-near", got[0].ID)
	assert.Equal(t, "ORG-far", got[1].ID)
}

func TestRankStationsUnknownTypeUsesRecyclable(t *testing.T) {
	got := RankStations(bin("Textile"), stations())
	require.Len(t, got, 1)
	assert.Equal(t, "REC-1", got[0].ID)
	assert.Equal(t, models.WasteRecyclable, StationGroup("Textile"))
	assert.Equal(t, models.WasteHazardous, StationGroup(models.WasteHazardous))
}

func TestRankStationsMissingGroup(t *testing.T) {
	got := RankStations(bin(models.WasteHazardous), stations())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectCandidates(t *testing.T) {
	drivers := []models.Driver{{ID: "D1", Lat: 20.28, Lon: 85.84, Status: models.DriverAvailable}}
	res := SelectCandidates(bin(models.WasteOrganic), drivers, stations())
	assert.True(t, res.Eligible)
	assert.Len(t, res.Drivers, 1)
	assert.Len(t, res.Stations, 2)
	assert.Equal(t, "B1", res.Bin.ID)
}

package database

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"wastewise-backend/internal/models"
	"wastewise-backend/internal/registry"
)

// LoadSeed reads registry seed data from a YAML file. An empty path
// returns DefaultSeed.
func LoadSeed(path string) (registry.Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return registry.Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed registry.Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return registry.Seed{}, fmt.Errorf("parse seed file: %w", err)
	}
	if err := validateSeed(seed); err != nil {
		return registry.Seed{}, err
	}
	return seed, nil
}

func validateSeed(seed registry.Seed) error {
	seen := map[string]bool{}
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("seed: %s with empty id", kind)
		}
		key := kind + "/" + id
		if seen[key] {
			return fmt.Errorf("seed: duplicate %s id %q", kind, id)
		}
		seen[key] = true
		return nil
	}
	for _, b := range seed.Bins {
		if err := check("bin", b.ID); err != nil {
			return err
		}
		if b.Fill < 0 || b.Fill > 100 {
			return fmt.Errorf("seed: bin %s fill %d out of range", b.ID, b.Fill)
		}
	}
	for _, d := range seed.Drivers {
		if err := check("driver", d.ID); err != nil {
			return err
		}
		if d.Status != models.DriverAvailable && d.Status != models.DriverOnTrip {
			return fmt.Errorf("seed: driver %s has unknown status %q", d.ID, d.Status)
		}
	}
	for _, s := range seed.Stations {
		if err := check("station", s.ID); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSeed is the Bhubaneswar demo fleet.
func DefaultSeed() registry.Seed {
	bins := []models.Bin{
		{ID: "BIN-BBSR-001", Location: "Master Canteen Square", Lat: 20.27, Lon: 85.84, Fill: 78, Type: models.WasteRecyclable, Updated: "09:05"},
		{ID: "BIN-BBSR-002", Location: "Saheed Nagar Market", Lat: 20.2962, Lon: 85.849, Fill: 83, Type: models.WasteOrganic, Updated: "09:12"},
		{ID: "BIN-BBSR-003", Location: "Rasulgarh Square", Lat: 20.3005, Lon: 85.8535, Fill: 65, Type: models.WasteRecyclable, Updated: "09:07"},
		{ID: "BIN-BBSR-004", Location: "Jaydev Vihar", Lat: 20.3058, Lon: 85.82, Fill: 72, Type: models.WasteRecyclable, Updated: "09:02"},
		{ID: "BIN-BBSR-005", Location: "Kharvel Nagar", Lat: 20.2735, Lon: 85.842, Fill: 58, Type: models.WasteOrganic, Updated: "08:59"},
		{ID: "BIN-BBSR-006", Location: "Chandrasekharpur - Infocity", Lat: 20.317, Lon: 85.8235, Fill: 91, Type: models.WasteHazardous, Updated: "09:10"},
		{ID: "BIN-BBSR-007", Location: "Patia Big Bazaar", Lat: 20.3187, Lon: 85.8269, Fill: 68, Type: models.WasteRecyclable, Updated: "09:11"},
		{ID: "BIN-BBSR-008", Location: "Khandagiri Square", Lat: 20.2625, Lon: 85.7805, Fill: 86, Type: models.WasteOrganic, Updated: "09:14"},
		{ID: "BIN-BBSR-009", Location: "Ekamra Kanan Gate", Lat: 20.2968, Lon: 85.8197, Fill: 41, Type: models.WasteOrganic, Updated: "08:49"},
		{ID: "BIN-BBSR-010", Location: "Unit 1 Market", Lat: 20.2665, Lon: 85.8393, Fill: 74, Type: models.WasteRecyclable, Updated: "09:03"},
		{ID: "BIN-BBSR-011", Location: "Old Town - Lingaraj", Lat: 20.2414, Lon: 85.8399, Fill: 67, Type: models.WasteOrganic, Updated: "09:08"},
		{ID: "BIN-BBSR-012", Location: "Railway Station (Platform Road)", Lat: 20.269, Lon: 85.8445, Fill: 92, Type: models.WasteHazardous, Updated: "09:15"},
	}
	for i := range bins {
		if t, err := time.Parse("15:04", bins[i].Updated); err == nil {
			now := time.Now()
			bins[i].UpdatedAt = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		}
	}

	return registry.Seed{
		Bins: bins,
		Drivers: []models.Driver{
			{ID: "DRV-BBSR-01", Name: "Prakash Mohanty", Phone: "+91 94370 10001", Lat: 20.28, Lon: 85.84, Status: models.DriverAvailable},
			{ID: "DRV-BBSR-02", Name: "Ananya Sahu", Phone: "+91 98530 10002", Lat: 20.3, Lon: 85.83, Status: models.DriverAvailable},
			{ID: "DRV-BBSR-03", Name: "Bikash Swain", Phone: "+91 99370 10003", Lat: 20.32, Lon: 85.82, Status: models.DriverOnTrip},
			{ID: "DRV-BBSR-04", Name: "Sabita Das", Phone: "+91 98610 10004", Lat: 20.26, Lon: 85.79, Status: models.DriverAvailable},
			{ID: "DRV-BBSR-05", Name: "Amit Patra", Phone: "+91 93480 10005", Lat: 20.31, Lon: 85.84, Status: models.DriverAvailable},
		},
		Stations: []models.Station{
			{ID: "REC-BBSR-1", Name: "BMC MRF - Chandrasekharpur", Lat: 20.3178, Lon: 85.825, CapacityKg: 12000, AcceptedType: models.WasteRecyclable},
			{ID: "REC-BBSR-2", Name: "Khurda MRF - Industrial Area", Lat: 20.154, Lon: 85.666, CapacityKg: 20000, AcceptedType: models.WasteRecyclable},
			{ID: "ORG-BBSR-1", Name: "BMC Compost Yard - Palasuni", Lat: 20.2995, Lon: 85.8695, CapacityKg: 10000, AcceptedType: models.WasteOrganic},
			{ID: "ORG-BBSR-2", Name: "Community Compost - Unit 6", Lat: 20.2652, Lon: 85.8258, CapacityKg: 6000, AcceptedType: models.WasteOrganic},
			{ID: "HAZ-BBSR-1", Name: "Authorized Hazardous Facility - Khurda", Lat: 20.121, Lon: 85.674, CapacityKg: 15000, AcceptedType: models.WasteHazardous},
		},
	}
}

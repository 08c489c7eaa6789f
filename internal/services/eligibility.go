package services

import (
	"fmt"

	"wastewise-backend/internal/models"
)

// Collection thresholds, in percent full. They are kept per type so each
// can be tuned on its own even though they currently agree.
const (
	UrgentFillThreshold     = 90
	OrganicFillThreshold    = 80
	HazardousFillThreshold  = 80
	RecyclableFillThreshold = 80
	AlertFillThreshold      = 80
)

// Fill status bands reported by the status endpoints.
const (
	StatusCritical = "CRITICAL"
	StatusHigh     = "HIGH"
	StatusMedium   = "MEDIUM"
	StatusLow      = "LOW"
)

// IsEligible reports whether a bin needs collection.
func IsEligible(bin models.Bin) bool {
	// Overflowing bins go first whatever they hold.
	if bin.Fill >= UrgentFillThreshold {
		return true
	}
	switch bin.Type {
	case models.WasteOrganic:
		return bin.Fill >= OrganicFillThreshold
	case models.WasteHazardous:
		return bin.Fill >= HazardousFillThreshold
	default:
		// Unknown types are handled as recyclables.
		return bin.Fill >= RecyclableFillThreshold
	}
}

// FillStatus maps a fill level to its status band.
func FillStatus(fill int) string {
	switch {
	case fill >= 90:
		return StatusCritical
	case fill >= 80:
		return StatusHigh
	case fill >= 60:
		return StatusMedium
	default:
		return StatusLow
	}
}

// Alerts returns the alert messages for a bin, never nil.
func Alerts(bin models.Bin) []string {
	alerts := []string{}
	if bin.Fill >= AlertFillThreshold {
		alerts = append(alerts, fmt.Sprintf("Bin %s at %s is %d%% full", bin.ID, bin.Location, bin.Fill))
	}
	return alerts
}

// BinStatus builds the status view of a bin.
func BinStatus(bin models.Bin) models.BinStatusResponse {
	return models.BinStatusResponse{
		BinID:    bin.ID,
		Location: bin.Location,
		Fill:     bin.Fill,
		Type:     bin.Type,
		Status:   FillStatus(bin.Fill),
		Alerts:   Alerts(bin),
		Updated:  bin.Updated,
	}
}

package handlers

import (
	"net/http"
	"time"

	"wastewise-backend/internal/registry"
	"wastewise-backend/pkg/utils"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

func Health(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, map[string]interface{}{
			"status":               "healthy",
			"timestamp":            time.Now().Format(time.RFC3339),
			"version":              Version,
			"total_bins_monitored": len(reg.Bins()),
			"drivers_available":    reg.AvailableDrivers(),
		})
	}
}

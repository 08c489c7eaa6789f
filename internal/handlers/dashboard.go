package handlers

import (
	"net/http"
	"time"

	"wastewise-backend/internal/models"
	"wastewise-backend/internal/registry"
	"wastewise-backend/internal/services"
	"wastewise-backend/pkg/utils"
)

// GetDashboardData handles GET /dashboard/data
func GetDashboardData(history services.WasteHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := history.Daily(r.Context())
		if err != nil {
			log.Errorf("load waste history: %v", err)
			utils.Error(w, http.StatusInternalServerError, MsgInternal)
			return
		}
		utils.Success(w, models.DashboardResponse{
			Days:    days,
			Summary: services.Summarize(days),
		})
	}
}

// AdminGetBins handles GET /admin/bins
func AdminGetBins(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, map[string]interface{}{
			"message":   "Administrative access granted",
			"data":      summarizeStatus(reg.Bins()),
			"eligible":  reg.EligibleBins(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// AdminGetDashboard handles GET /admin/dashboard
func AdminGetDashboard(history services.WasteHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := history.Daily(r.Context())
		if err != nil {
			log.Errorf("load waste history: %v", err)
			utils.Error(w, http.StatusInternalServerError, MsgInternal)
			return
		}
		peak, low := services.PeakAndLowDays(days)
		utils.Success(w, models.AdminDashboardResponse{
			Summary:  services.Summarize(days),
			PeakDays: peak,
			LowDays:  low,
		})
	}
}

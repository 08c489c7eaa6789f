package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wastewise-backend/internal/models"
	"wastewise-backend/internal/registry"
	"wastewise-backend/internal/services"
	"wastewise-backend/pkg/utils"
)

// StatusSummary is returned by GET /status
type StatusSummary struct {
	TotalBins      int                        `json:"total_bins"`
	StatusSummary  map[string]int             `json:"status_summary"`
	BinsWithAlerts []string                   `json:"bins_with_alerts"`
	Bins           []models.BinStatusResponse `json:"bins"`
	LastUpdated    string                     `json:"last_updated"`
}

func summarizeStatus(bins []models.Bin) StatusSummary {
	summary := StatusSummary{
		TotalBins: len(bins),
		StatusSummary: map[string]int{
			services.StatusLow:      0,
			services.StatusMedium:   0,
			services.StatusHigh:     0,
			services.StatusCritical: 0,
		},
		BinsWithAlerts: []string{},
		Bins:           make([]models.BinStatusResponse, 0, len(bins)),
		LastUpdated:    time.Now().Format(time.RFC3339),
	}
	for _, b := range bins {
		st := services.BinStatus(b)
		summary.StatusSummary[st.Status]++
		if len(st.Alerts) > 0 {
			summary.BinsWithAlerts = append(summary.BinsWithAlerts, b.ID)
		}
		summary.Bins = append(summary.Bins, st)
	}
	return summary
}

func GetStatus(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, summarizeStatus(reg.Bins()))
	}
}

func GetBinStatus(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bin, err := reg.Bin(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, http.StatusNotFound, MsgNotFound)
			return
		}
		utils.Success(w, services.BinStatus(bin))
	}
}

// ReceiveReading handles POST /data from bin sensors.
func ReceiveReading(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.Reading
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, http.StatusNotFound, MsgNotFound)
			return
		}

		bin, err := reg.RecordReading(req.BinID, *req.Fill)
		if err != nil {
			writeError(w, err, http.StatusNotFound, MsgNotFound)
			return
		}

		st := services.BinStatus(bin)
		if len(st.Alerts) > 0 {
			log.Warnf("bin %s reported %d%% (%s)", bin.ID, bin.Fill, st.Status)
		}
		utils.Success(w, models.ReadingResponse{
			BinStatusResponse: st,
			ReceivedAt:        bin.UpdatedAt.Format(time.RFC3339),
		})
	}
}

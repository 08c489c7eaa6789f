package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wastewise-backend/internal/registry"
	"wastewise-backend/pkg/utils"
)

func GetBins(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, reg.Bins())
	}
}

// GetBinCandidates ranks available drivers and compatible stations for a bin.
func GetBinCandidates(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := reg.Candidates(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, http.StatusNotFound, MsgNotFound)
			return
		}
		utils.Success(w, res)
	}
}

func GetDrivers(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, reg.Drivers())
	}
}

func GetStations(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, reg.Stations())
	}
}

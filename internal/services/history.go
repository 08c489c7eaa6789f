package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"wastewise-backend/internal/models"
)

// Daily totals above PeakDayKg or below LowDayKg are flagged on the admin dashboard.
const (
	PeakDayKg = 200.0
	LowDayKg  = 100.0
)

// WasteHistory supplies historical daily collection totals.
type WasteHistory interface {
	Daily(ctx context.Context) ([]models.DailyWaste, error)
}

// CSVHistory reads daily totals from a CSV file with the header
// date,total_organic_kg,total_recyclable_kg,total_hazardous_kg.
type CSVHistory struct {
	Path string
}

func NewCSVHistory(path string) *CSVHistory {
	return &CSVHistory{Path: path}
}

func (h *CSVHistory) Daily(ctx context.Context) ([]models.DailyWaste, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("open waste history: %w", err)
	}
	defer f.Close()
	return ParseDailyWasteCSV(f)
}

// ParseDailyWasteCSV decodes daily totals. Columns are located by header name.
func ParseDailyWasteCSV(r io.Reader) ([]models.DailyWaste, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.DailyWaste{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range []string{"date", "total_organic_kg", "total_recyclable_kg", "total_hazardous_kg"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	days := []models.DailyWaste{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		day := models.DailyWaste{Date: rec[idx["date"]]}
		fields := []struct {
			col string
			dst *float64
		}{
			{"total_organic_kg", &day.OrganicKg},
			{"total_recyclable_kg", &day.RecyclableKg},
			{"total_hazardous_kg", &day.HazardousKg},
		}
		for _, fld := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[fld.col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, fld.col, err)
			}
			*fld.dst = v
		}
		days = append(days, day)
	}
	return days, nil
}

// Summarize computes totals, per-type averages and the spread of the
// daily totals.
func Summarize(days []models.DailyWaste) models.WasteSummary {
	n := len(days)
	if n == 0 {
		return models.WasteSummary{}
	}
	organic := make([]float64, n)
	recyclable := make([]float64, n)
	hazardous := make([]float64, n)
	totals := make([]float64, n)
	for i, d := range days {
		organic[i] = d.OrganicKg
		recyclable[i] = d.RecyclableKg
		hazardous[i] = d.HazardousKg
		totals[i] = d.TotalKg()
	}
	s := models.WasteSummary{
		Days:              n,
		TotalOrganicKg:    floats.Sum(organic),
		TotalRecyclableKg: floats.Sum(recyclable),
		TotalHazardousKg:  floats.Sum(hazardous),
		AvgOrganicKg:      stat.Mean(organic, nil),
		AvgRecyclableKg:   stat.Mean(recyclable, nil),
		AvgHazardousKg:    stat.Mean(hazardous, nil),
		AvgDailyTotalKg:   stat.Mean(totals, nil),
	}
	if n > 1 {
		s.StdDevDailyTotalKg = stat.StdDev(totals, nil)
	}
	return s
}

// PeakAndLowDays splits out the days whose total is above PeakDayKg or
// below LowDayKg.
func PeakAndLowDays(days []models.DailyWaste) (peak, low []models.DailyWaste) {
	peak = []models.DailyWaste{}
	low = []models.DailyWaste{}
	for _, d := range days {
		total := d.TotalKg()
		switch {
		case total > PeakDayKg:
			peak = append(peak, d)
		case total < LowDayKg:
			low = append(low, d)
		}
	}
	return peak, low
}

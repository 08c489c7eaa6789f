package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewise-backend/internal/models"
)

const sampleCSV = `date,total_organic_kg,total_recyclable_kg,total_hazardous_kg
2025-09-01,120.5,80.0,20.0
2025-09-02,50.0,30.0,10.0
2025-09-03,100.0,60.0,25.0
`

func TestParseDailyWasteCSV(t *testing.T) {
	days, err := ParseDailyWasteCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-09-01", days[0].Date)
	assert.Equal(t, 120.5, days[0].OrganicKg)
	assert.Equal(t, 220.5, days[0].TotalKg())
}

func TestParseDailyWasteCSVColumnOrder(t *testing.T) {
	csv := "total_hazardous_kg,date,total_recyclable_kg,total_organic_kg\n5,2025-09-01,10,20\n"
	days, err := ParseDailyWasteCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, models.DailyWaste{Date: "2025-09-01", OrganicKg: 20, RecyclableKg: 10, HazardousKg: 5}, days[0])
}

func TestParseDailyWasteCSVErrors(t *testing.T) {
	_, err := ParseDailyWasteCSV(strings.NewReader("date,total_organic_kg\n2025-09-01,1\n"))
	assert.Error(t, err)

	_, err = ParseDailyWasteCSV(strings.NewReader(
		"date,total_organic_kg,total_recyclable_kg,total_hazardous_kg\n2025-09-01,abc,1,1\n"))
	assert.Error(t, err)

	days, err := ParseDailyWasteCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestCSVHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	days, err := NewCSVHistory(path).Daily(context.Background())
	require.NoError(t, err)
	assert.Len(t, days, 3)

	_, err = NewCSVHistory(filepath.Join(t.TempDir(), "missing.csv")).Daily(context.Background())
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	days, err := ParseDailyWasteCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	s := Summarize(days)
	assert.Equal(t, 3, s.Days)
	assert.InDelta(t, 270.5, s.TotalOrganicKg, 1e-9)
	assert.InDelta(t, 170.0, s.TotalRecyclableKg, 1e-9)
	assert.InDelta(t, 55.0, s.TotalHazardousKg, 1e-9)
	assert.InDelta(t, 270.5/3, s.AvgOrganicKg, 1e-9)
	assert.InDelta(t, (220.5+90+185)/3, s.AvgDailyTotalKg, 1e-9)
	assert.Greater(t, s.StdDevDailyTotalKg, 0.0)

	assert.Equal(t, models.WasteSummary{}, Summarize(nil))
	single := Summarize(days[:1])
	assert.Equal(t, 0.0, single.StdDevDailyTotalKg)
}

func TestPeakAndLowDays(t *testing.T) {
	days, err := ParseDailyWasteCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	peak, low := PeakAndLowDays(days)
	require.Len(t, peak, 1)
	assert.Equal(t, "2025-09-01", peak[0].Date)
	require.Len(t, low, 1)
	assert.Equal(t, "2025-09-02", low[0].Date)

	peak, low = PeakAndLowDays(nil)
	assert.NotNil(t, peak)
	assert.NotNil(t, low)
}

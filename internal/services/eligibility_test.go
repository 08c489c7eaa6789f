package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wastewise-backend/internal/models"
)

func TestIsEligible(t *testing.T) {
	cases := []struct {
		fill int
		typ  string
		want bool
	}{
		{79, models.WasteOrganic, false},
		{80, models.WasteOrganic, true},
		{80, models.WasteHazardous, true},
		{79, models.WasteHazardous, false},
		{80, models.WasteRecyclable, true},
		{79, models.WasteRecyclable, false},
		{90, models.WasteRecyclable, true},
		{100, models.WasteOrganic, true},
		{0, models.WasteHazardous, false},
		{85, "Textile", true},
		{79, "Textile", false},
	}
	for _, tc := range cases {
		bin := models.Bin{ID: "B", Fill: tc.fill, Type: tc.typ}
		assert.Equal(t, tc.want, IsEligible(bin), "fill=%d type=%s", tc.fill, tc.typ)
	}
}

func TestIsEligibleMatchesThreshold(t *testing.T) {
	for _, typ := range append([]string{"Unknown"}, models.WasteTypes...) {
		for fill := 0; fill <= 100; fill++ {
			bin := models.Bin{Fill: fill, Type: typ}
			assert.Equal(t, fill >= 80, IsEligible(bin), "fill=%d type=%s", fill, typ)
		}
	}
}

func TestFillStatus(t *testing.T) {
	assert.Equal(t, StatusLow, FillStatus(0))
	assert.Equal(t, StatusLow, FillStatus(59))
	assert.Equal(t, StatusMedium, FillStatus(60))
	assert.Equal(t, StatusMedium, FillStatus(79))
	assert.Equal(t, StatusHigh, FillStatus(80))
	assert.Equal(t, StatusHigh, FillStatus(89))
	assert.Equal(t, StatusCritical, FillStatus(90))
	assert.Equal(t, StatusCritical, FillStatus(100))
}

func TestAlerts(t *testing.T) {
	assert.Empty(t, Alerts(models.Bin{ID: "B1", Fill: 79}))
	assert.NotNil(t, Alerts(models.Bin{ID: "B1", Fill: 79}))

	alerts := Alerts(models.Bin{ID: "B1", Location: "Market", Fill: 86})
	assert.Equal(t, []string{"Bin B1 at Market is 86% full"}, alerts)
}

func TestBinStatus(t *testing.T) {
	st := BinStatus(models.Bin{ID: "B6", Location: "Infocity", Fill: 91, Type: models.WasteHazardous, Updated: "09:10"})
	assert.Equal(t, "B6", st.BinID)
	assert.Equal(t, StatusCritical, st.Status)
	assert.Len(t, st.Alerts, 1)
	assert.Equal(t, "09:10", st.Updated)
}

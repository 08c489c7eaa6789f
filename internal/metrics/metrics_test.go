package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewise-backend/internal/models"
)

func TestPromSinkRecordDispatch(t *testing.T) {
	sink, err := NewPromSink(prometheus.NewRegistry())
	require.NoError(t, err)

	sink.RecordDispatch(ResultAssigned)
	sink.RecordDispatch(ResultConflict)
	sink.RecordDispatch(ResultConflict)

	expected := `
# HELP wastewise_dispatch_total Dispatch requests by result
# TYPE wastewise_dispatch_total counter
wastewise_dispatch_total{result="assigned"} 1
wastewise_dispatch_total{result="conflict"} 2
`
	if err := testutil.CollectAndCompare(sink.dispatches, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSinkHandleEvent(t *testing.T) {
	sink, err := NewPromSink(prometheus.NewRegistry())
	require.NoError(t, err)
	sink.SetAvailableDrivers(3)

	trip := models.Trip{ID: "TRP-001", Status: models.TripAssigned}
	sink.HandleEvent(models.Event{
		Type:   models.EventTripAssigned,
		Trip:   &trip,
		Bin:    &models.Bin{ID: "B1", Type: models.WasteOrganic, Fill: 25},
		Driver: &models.Driver{ID: "D1", Status: models.DriverOnTrip},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.available))
	assert.Equal(t, 25.0, testutil.ToFloat64(sink.binFill.WithLabelValues("B1", models.WasteOrganic)))

	done := models.Trip{ID: "TRP-001", Status: models.TripCompleted}
	sink.HandleEvent(models.Event{
		Type:   models.EventTripUpdated,
		Trip:   &done,
		Driver: &models.Driver{ID: "D1", Status: models.DriverAvailable},
	})
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.available))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.tripUpdates.WithLabelValues(models.TripCompleted)))

	sink.HandleEvent(models.Event{Type: models.EventBinUpdated, Bin: &models.Bin{ID: "B2", Type: models.WasteHazardous, Fill: 91}})
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.readings))
}

func TestPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSink(reg)
	require.NoError(t, err)
	second, err := NewPromSink(reg)
	require.NoError(t, err)

	first.RecordDispatch(ResultAssigned)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.dispatches.WithLabelValues(ResultAssigned)))
}

func TestPromSinkHandler(t *testing.T) {
	sink, err := NewPromSink(prometheus.NewRegistry())
	require.NoError(t, err)
	sink.ObserveBins([]models.Bin{{ID: "B1", Type: models.WasteOrganic, Fill: 85}})

	rec := httptest.NewRecorder()
	sink.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `wastewise_bin_fill_percent{bin_id="B1",type="Organic"} 85`)
}

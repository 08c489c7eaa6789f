package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wastewise-backend/internal/models"
)

// Dispatch results used as label values.
const (
	ResultAssigned = "assigned"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// PromSink records dispatch activity in Prometheus metrics.
type PromSink struct {
	dispatches  *prometheus.CounterVec
	tripUpdates *prometheus.CounterVec
	readings    prometheus.Counter
	binFill     *prometheus.GaugeVec
	available   prometheus.Gauge
	gatherer    prometheus.Gatherer
}

// NewPromSink registers the collectors on reg, reusing any that are
// already registered. A nil reg means the default registry.
func NewPromSink(reg *prometheus.Registry) (*PromSink, error) {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wastewise_dispatch_total",
		Help: "Dispatch requests by result",
	}, []string{"result"})
	tripUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wastewise_trip_status_updates_total",
		Help: "Trip status changes by new status",
	}, []string{"status"})
	readings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wastewise_sensor_readings_total",
		Help: "Fill readings applied to bins",
	})
	binFill := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wastewise_bin_fill_percent",
		Help: "Last known fill level per bin",
	}, []string{"bin_id", "type"})
	available := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wastewise_drivers_available",
		Help: "Drivers currently available for dispatch",
	})

	var err error
	if dispatches, err = register(registerer, dispatches); err != nil {
		return nil, err
	}
	if tripUpdates, err = register(registerer, tripUpdates); err != nil {
		return nil, err
	}
	if readings, err = register(registerer, readings); err != nil {
		return nil, err
	}
	if binFill, err = register(registerer, binFill); err != nil {
		return nil, err
	}
	if available, err = register(registerer, available); err != nil {
		return nil, err
	}

	return &PromSink{
		dispatches:  dispatches,
		tripUpdates: tripUpdates,
		readings:    readings,
		binFill:     binFill,
		available:   available,
		gatherer:    gatherer,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDispatch counts one dispatch attempt.
func (s *PromSink) RecordDispatch(result string) {
	s.dispatches.WithLabelValues(result).Inc()
}

// SetAvailableDrivers records the current count of available drivers.
func (s *PromSink) SetAvailableDrivers(n int) {
	s.available.Set(float64(n))
}

// ObserveBins sets the fill gauge for every bin.
func (s *PromSink) ObserveBins(bins []models.Bin) {
	for _, b := range bins {
		s.binFill.WithLabelValues(b.ID, b.Type).Set(float64(b.Fill))
	}
}

// HandleEvent keeps gauges current as the registry changes.
func (s *PromSink) HandleEvent(ev models.Event) {
	switch ev.Type {
	case models.EventTripUpdated:
		if ev.Trip != nil {
			s.tripUpdates.WithLabelValues(ev.Trip.Status).Inc()
		}
	case models.EventBinUpdated:
		s.readings.Inc()
	}
	if ev.Bin != nil {
		s.binFill.WithLabelValues(ev.Bin.ID, ev.Bin.Type).Set(float64(ev.Bin.Fill))
	}
	if ev.Driver != nil {
		switch ev.Driver.Status {
		case models.DriverAvailable:
			s.available.Inc()
		case models.DriverOnTrip:
			s.available.Dec()
		}
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (s *PromSink) Handler() http.Handler {
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}

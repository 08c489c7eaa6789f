package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/models"
	"wastewise-backend/internal/services"
)

// CollectedFill is the fill reduction applied to a bin when a trip is dispatched.
const CollectedFill = 60

// Seed is the initial content of a registry.
type Seed struct {
	Bins     []models.Bin     `yaml:"bins"`
	Drivers  []models.Driver  `yaml:"drivers"`
	Stations []models.Station `yaml:"stations"`
}

// Listener receives events after the change they describe is committed.
type Listener interface {
	HandleEvent(ev models.Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev models.Event)

func (f ListenerFunc) HandleEvent(ev models.Event) { f(ev) }

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the logger used for dispatch decisions.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// Registry is the in-memory source of truth for bins, drivers, stations
// and trips. Every mutation runs under one mutex so check-then-act
// sequences are atomic.
type Registry struct {
	mu       sync.Mutex
	bins     []models.Bin
	drivers  []models.Driver
	stations []models.Station
	trips    []models.Trip
	binIdx   map[string]int
	drvIdx   map[string]int
	stnIdx   map[string]int
	tripIdx  map[string]int
	seq      int

	listenersMu sync.RWMutex
	listeners   []Listener

	// Every committed change takes the next commit number under mu.
	// Events are delivered strictly in that order.
	commits   uint64
	deliverMu sync.Mutex
	delivered uint64
	turn      *sync.Cond

	now func() time.Time
	log logger.Logger
}

// New builds a registry holding copies of the seed data.
func New(seed Seed, opts ...Option) *Registry {
	r := &Registry{
		bins:     append([]models.Bin(nil), seed.Bins...),
		drivers:  append([]models.Driver(nil), seed.Drivers...),
		stations: append([]models.Station(nil), seed.Stations...),
		binIdx:   make(map[string]int, len(seed.Bins)),
		drvIdx:   make(map[string]int, len(seed.Drivers)),
		stnIdx:   make(map[string]int, len(seed.Stations)),
		tripIdx:  make(map[string]int),
		now:      time.Now,
		log:      logger.NopLogger{},
	}
	r.turn = sync.NewCond(&r.deliverMu)
	for _, opt := range opts {
		opt(r)
	}
	for i, b := range r.bins {
		r.binIdx[b.ID] = i
	}
	for i, d := range r.drivers {
		r.drvIdx[d.ID] = i
	}
	for i, s := range r.stations {
		if s.AcceptedType == "" {
			r.stations[i].AcceptedType = models.WasteRecyclable
		}
		r.stnIdx[s.ID] = i
	}
	return r
}

// Subscribe registers a listener for committed events. Listeners run
// synchronously, one event at a time, in commit order. They may read the
// registry but must not change it.
func (r *Registry) Subscribe(l Listener) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.listeners = append(r.listeners, l)
}

// commit reserves the next commit number. Callers must hold mu and must
// pass the number to publish exactly once.
func (r *Registry) commit() uint64 {
	n := r.commits
	r.commits++
	return n
}

// publish waits until every earlier commit has been delivered, then hands
// the events to the listeners.
func (r *Registry) publish(n uint64, events ...models.Event) {
	r.deliverMu.Lock()
	defer func() {
		r.delivered++
		r.turn.Broadcast()
		r.deliverMu.Unlock()
	}()
	for r.delivered != n {
		r.turn.Wait()
	}

	r.listenersMu.RLock()
	listeners := append([]Listener(nil), r.listeners...)
	r.listenersMu.RUnlock()
	for _, ev := range events {
		for _, l := range listeners {
			l.HandleEvent(ev)
		}
	}
}

// Bins returns a copy of all bins in seed order.
func (r *Registry) Bins() []models.Bin {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Bin{}, r.bins...)
}

// Bin returns a copy of one bin.
func (r *Registry) Bin(id string) (models.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.binIdx[id]
	if !ok {
		return models.Bin{}, &NotFoundError{Kind: "bin", ID: id}
	}
	return r.bins[i], nil
}

// Drivers returns a copy of all drivers in seed order.
func (r *Registry) Drivers() []models.Driver {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Driver{}, r.drivers...)
}

// Stations returns the stations grouped by accepted waste type. Every
// known type has an entry, possibly empty.
func (r *Registry) Stations() models.StationsByType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(models.StationsByType, len(models.WasteTypes))
	for _, t := range models.WasteTypes {
		out[t] = []models.Station{}
	}
	for _, s := range r.stations {
		out[s.AcceptedType] = append(out[s.AcceptedType], s)
	}
	return out
}

// Trips returns all trips, most recent first.
func (r *Registry) Trips() []models.Trip {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Trip, len(r.trips))
	for i, t := range r.trips {
		out[len(r.trips)-1-i] = t
	}
	return out
}

// Trip returns a copy of one trip.
func (r *Registry) Trip(id string) (models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.tripIdx[id]
	if !ok {
		return models.Trip{}, &NotFoundError{Kind: "trip", ID: id}
	}
	return r.trips[i], nil
}

// Candidates ranks available drivers and compatible stations for a bin.
func (r *Registry) Candidates(binID string) (models.CandidatesResponse, error) {
	r.mu.Lock()
	i, ok := r.binIdx[binID]
	if !ok {
		r.mu.Unlock()
		return models.CandidatesResponse{}, &NotFoundError{Kind: "bin", ID: binID}
	}
	bin := r.bins[i]
	drivers := append([]models.Driver{}, r.drivers...)
	r.mu.Unlock()

	return services.SelectCandidates(bin, drivers, r.Stations()), nil
}

// Dispatch assigns a driver and a station to a bin. The driver goes on
// trip, the bin is emptied by CollectedFill points and a new Assigned
// trip is recorded. Nothing changes when an error is returned.
func (r *Registry) Dispatch(binID, driverID, stationID string) (models.Trip, error) {
	r.mu.Lock()

	bi, okBin := r.binIdx[binID]
	di, okDrv := r.drvIdx[driverID]
	si, okStn := r.stnIdx[stationID]
	switch {
	case !okBin:
		r.mu.Unlock()
		return models.Trip{}, &NotFoundError{Kind: "bin", ID: binID}
	case !okDrv:
		r.mu.Unlock()
		return models.Trip{}, &NotFoundError{Kind: "driver", ID: driverID}
	case !okStn:
		r.mu.Unlock()
		return models.Trip{}, &NotFoundError{Kind: "station", ID: stationID}
	}

	if !r.drivers[di].IsAvailable() {
		status := r.drivers[di].Status
		r.mu.Unlock()
		r.log.Warnf("dispatch rejected: driver %s is %s", driverID, status)
		return models.Trip{}, &ConflictError{Reason: ReasonDriverNotAvailable}
	}

	now := r.now()
	r.drivers[di].Status = models.DriverOnTrip

	bin := &r.bins[bi]
	bin.Fill = max(0, bin.Fill-CollectedFill)
	bin.Touch(now)

	r.seq++
	trip := models.Trip{
		ID:        fmt.Sprintf("TRP-%03d", r.seq),
		BinID:     bin.ID,
		Location:  bin.Location,
		DriverID:  driverID,
		Driver:    r.drivers[di],
		StationID: stationID,
		Station:   r.stations[si],
		Status:    models.TripAssigned,
		CreatedAt: now.UnixMilli(),
	}
	r.trips = append(r.trips, trip)
	r.tripIdx[trip.ID] = len(r.trips) - 1

	binCopy := *bin
	driverCopy := r.drivers[di]
	n := r.commit()
	r.mu.Unlock()

	r.log.Infof("dispatched %s: bin %s driver %s station %s", trip.ID, binID, driverID, stationID)
	tripCopy := trip
	r.publish(n,
		models.Event{Type: models.EventTripAssigned, Trip: &tripCopy, Bin: &binCopy, Driver: &driverCopy, At: now},
	)
	return trip, nil
}

// UpdateTripStatus sets a trip's status. Completing a trip frees its
// driver. A completed trip cannot be moved to another status; completing
// it again changes nothing.
func (r *Registry) UpdateTripStatus(tripID, status string) (models.Trip, error) {
	if status == "" {
		return models.Trip{}, &ValidationError{Field: "status", Reason: "must not be empty"}
	}

	r.mu.Lock()
	ti, ok := r.tripIdx[tripID]
	if !ok {
		r.mu.Unlock()
		return models.Trip{}, &NotFoundError{Kind: "trip", ID: tripID}
	}
	trip := &r.trips[ti]

	if trip.Status == models.TripCompleted {
		current := *trip
		r.mu.Unlock()
		if status == models.TripCompleted {
			return current, nil
		}
		return models.Trip{}, &ConflictError{Reason: ReasonTripCompleted}
	}

	trip.Status = status
	var freed *models.Driver
	if status == models.TripCompleted {
		if di, ok := r.drvIdx[trip.DriverID]; ok {
			r.drivers[di].Status = models.DriverAvailable
			d := r.drivers[di]
			freed = &d
		}
	}
	updated := *trip
	now := r.now()
	n := r.commit()
	r.mu.Unlock()

	r.log.Infof("trip %s -> %s", tripID, status)
	tripCopy := updated
	r.publish(n, models.Event{Type: models.EventTripUpdated, Trip: &tripCopy, Driver: freed, At: now})
	return updated, nil
}

// RecordReading stores a sensor fill level. Levels outside 0-100 are
// rejected with a ValidationError.
func (r *Registry) RecordReading(binID string, fill int) (models.Bin, error) {
	if fill < 0 || fill > 100 {
		return models.Bin{}, &ValidationError{Field: "fill", Reason: "must be between 0 and 100"}
	}

	r.mu.Lock()
	i, ok := r.binIdx[binID]
	if !ok {
		r.mu.Unlock()
		return models.Bin{}, &NotFoundError{Kind: "bin", ID: binID}
	}
	now := r.now()
	bin := &r.bins[i]
	bin.Fill = fill
	bin.Touch(now)
	updated := *bin
	n := r.commit()
	r.mu.Unlock()

	binCopy := updated
	r.publish(n, models.Event{Type: models.EventBinUpdated, Bin: &binCopy, At: now})
	return updated, nil
}

// EligibleBins returns the bins that currently need collection, fullest first.
func (r *Registry) EligibleBins() []models.Bin {
	bins := r.Bins()
	out := make([]models.Bin, 0, len(bins))
	for _, b := range bins {
		if services.IsEligible(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fill > out[j].Fill })
	return out
}

// AvailableDrivers counts drivers that can take a trip.
func (r *Registry) AvailableDrivers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.drivers {
		if d.IsAvailable() {
			n++
		}
	}
	return n
}

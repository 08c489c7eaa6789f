package registry

import (
	"context"
	"math/rand"
	"time"

	"wastewise-backend/internal/logger"
)

// Simulator raises the fill of a random bin on every tick, standing in for
// sensors when none are connected.
type Simulator struct {
	reg      *Registry
	interval time.Duration
	rnd      *rand.Rand
	log      logger.Logger
}

func NewSimulator(reg *Registry, interval time.Duration, seed int64, log logger.Logger) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Simulator{
		reg:      reg,
		interval: interval,
		rnd:      rand.New(rand.NewSource(seed)),
		log:      log,
	}
}

// Run ticks until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step raises one bin's fill by 1 to 7 points, stopping at 100.
func (s *Simulator) Step() {
	bins := s.reg.Bins()
	if len(bins) == 0 {
		return
	}
	b := bins[s.rnd.Intn(len(bins))]
	fill := min(100, b.Fill+1+s.rnd.Intn(7))
	updated, err := s.reg.RecordReading(b.ID, fill)
	if err != nil {
		s.log.Warnf("simulator: %v", err)
		return
	}
	s.log.Debugf("simulator: bin %s now %d%%", updated.ID, updated.Fill)
}

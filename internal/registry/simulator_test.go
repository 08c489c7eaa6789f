package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wastewise-backend/internal/models"
)

func TestSimulatorStepRaisesFill(t *testing.T) {
	reg := newTestRegistry()
	sim := NewSimulator(reg, time.Second, 42, nil)

	before := 0
	for _, b := range reg.Bins() {
		before += b.Fill
	}
	sim.Step()
	after := 0
	for _, b := range reg.Bins() {
		after += b.Fill
	}
	assert.Greater(t, after, before)
	assert.LessOrEqual(t, after-before, 7)
}

func TestSimulatorNeverExceedsFull(t *testing.T) {
	reg := newTestRegistry()
	sim := NewSimulator(reg, time.Second, 7, nil)
	for i := 0; i < 200; i++ {
		sim.Step()
	}
	for _, b := range reg.Bins() {
		assert.LessOrEqual(t, b.Fill, 100)
	}
}

func TestSimulatorRunStopsOnCancel(t *testing.T) {
	reg := newTestRegistry()
	updates := make(chan struct{}, 64)
	reg.Subscribe(ListenerFunc(func(ev models.Event) {
		if ev.Type == models.EventBinUpdated {
			select {
			case updates <- struct{}{}:
			default:
			}
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSimulator(reg, 5*time.Millisecond, 1, nil).Run(ctx)
		close(done)
	}()

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("simulator never ticked")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("simulator did not stop")
	}
}

func TestSimulatorEmptyRegistry(t *testing.T) {
	sim := NewSimulator(New(Seed{}), time.Second, 1, nil)
	sim.Step()
}

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// Janitor periodically evicts abandoned workspaces
type Janitor struct {
	store    ports.WorkspaceStore
	interval time.Duration
	ttl      time.Duration
	clock    ports.TimeProvider
	logger   ports.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
	started bool
	stopCh  chan struct{}
}

// NewJanitor creates a janitor sweeping every interval for workspaces older than ttl
func NewJanitor(store ports.WorkspaceStore, interval, ttl time.Duration, clock ports.TimeProvider, logger ports.Logger) *Janitor {
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Janitor{
		store:    store,
		interval: interval,
		ttl:      ttl,
		clock:    clock,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start sweeps once and then keeps sweeping in the background until ctx ends or Stop is called
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started || j.stopped {
		return
	}
	j.started = true

	j.sweep(ctx)

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.loop(ctx)
	}()
}

// Stop ends the sweep loop and waits for it
func (j *Janitor) Stop() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.stopped = true
	close(j.stopCh)
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *Janitor) loop(ctx context.Context) {
	ticker := j.clock.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopCh:
			return
		case <-ticker.C():
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.store.Sweep(ctx, j.ttl)
	if err != nil {
		j.logger.Warn("workspace sweep: %v", err)
	}
	if removed > 0 {
		j.logger.Info("removed %d expired workspaces", removed)
	}
}

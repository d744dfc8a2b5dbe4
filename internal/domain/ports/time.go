package ports

import "time"

// TimeProvider abstracts the clock for background loops
type TimeProvider interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker abstracts time.Ticker for testability
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealTimeProvider implements TimeProvider using the time package
type RealTimeProvider struct{}

// NewRealTimeProvider creates a wall-clock time provider
func NewRealTimeProvider() TimeProvider {
	return RealTimeProvider{}
}

// Now returns the current time
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NewTicker creates a new ticker
func (RealTimeProvider) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}

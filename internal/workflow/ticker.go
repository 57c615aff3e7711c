package workflow

import "time"

// Heartbeat constants. The heartbeat is a visual pulse shown while a
// submission is in flight; it is not a measurement of server progress.
const (
	// HeartbeatPeriod is the interval between progress increments.
	HeartbeatPeriod = 500 * time.Millisecond

	// HeartbeatStep is the progress increment per tick.
	HeartbeatStep = 10

	// HeartbeatCap is the highest progress the heartbeat may reach on
	// its own; only a real response moves progress past it.
	HeartbeatCap = 90
)

// Ticker is the cooperative timer driving the progress heartbeat. It is
// an interface so tests can advance virtual time deterministically.
type Ticker interface {
	// C returns the tick channel.
	C() <-chan time.Time

	// Stop releases the ticker. No ticks are delivered after Stop.
	Stop()
}

// TickerFactory creates a Ticker for the given period.
type TickerFactory func(period time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// NewRealTicker is the wall-clock TickerFactory used outside tests.
func NewRealTicker(period time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(period)}
}

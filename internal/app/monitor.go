package app

import (
	"context"
	"errors"
	"time"

	"k8s.io/utils/clock"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
	"github.com/bft-labs/standby/pkg/heartbeat"
)

// MonitorConfig holds the backup's failure detection timing.
type MonitorConfig struct {
	// HeartbeatInterval bounds a single blocking receive.
	HeartbeatInterval time.Duration

	// FailureThreshold is how long the primary may stay silent before
	// it is presumed dead.
	FailureThreshold time.Duration
}

// Monitor watches the heartbeat channel on behalf of a backup.
// It is used by a single goroutine and is not safe for concurrent use.
type Monitor struct {
	cfg      MonitorConfig
	receiver ports.HeartbeatReceiver
	clock    clock.PassiveClock
	logger   ports.Logger
	metrics  ports.Metrics

	counter       domain.Counter
	lastHeartbeat time.Time
}

// NewMonitor creates a monitor reading from receiver.
func NewMonitor(
	cfg MonitorConfig,
	receiver ports.HeartbeatReceiver,
	clk clock.PassiveClock,
	logger ports.Logger,
	metrics ports.Metrics,
) *Monitor {
	return &Monitor{
		cfg:      cfg,
		receiver: receiver,
		clock:    clk,
		logger:   logger,
		metrics:  metrics,
		counter:  domain.InitialCounter,
	}
}

// Run blocks until the primary is presumed dead and returns the counter
// value to resume from. It returns early with ctx.Err() if ctx is canceled.
//
// The silence window starts when Run is called, so a primary that never
// sends anything is declared dead one FailureThreshold after startup.
func (m *Monitor) Run(ctx context.Context) (domain.Counter, error) {
	m.lastHeartbeat = m.clock.Now()

	for {
		payload, err := m.receiver.Receive(ctx, m.cfg.HeartbeatInterval)
		switch {
		case err == nil:
			m.observe(payload)
		case ctx.Err() != nil:
			return m.counter, ctx.Err()
		case errors.Is(err, domain.ErrReceiveTimeout):
			// no datagram this interval
		default:
			m.metrics.ReceiveError()
			m.logger.Error("heartbeat receive failed", ports.Err(err))
		}

		if silence := m.clock.Since(m.lastHeartbeat); silence > m.cfg.FailureThreshold {
			m.logger.Warn("primary presumed dead",
				ports.Duration("silence", silence),
				ports.Uint64("counter", m.counter.Value()),
			)
			return m.counter, nil
		}
	}
}

// observe applies one datagram. Any datagram counts as a sign of life,
// but only a well-formed one updates the counter.
func (m *Monitor) observe(payload []byte) {
	m.lastHeartbeat = m.clock.Now()

	value, err := heartbeat.Decode(payload)
	if err != nil {
		m.metrics.HeartbeatReceived(false)
		m.logger.Debug("ignoring malformed heartbeat",
			ports.Int("size", len(payload)),
			ports.Err(err),
		)
		return
	}

	m.counter = domain.Counter(value)
	m.metrics.HeartbeatReceived(true)
	m.metrics.CounterObserved(value)
	m.logger.Debug("heartbeat received", ports.Uint64("counter", value))
}

// Counter returns the last value learned from the primary.
func (m *Monitor) Counter() domain.Counter {
	return m.counter
}

package app

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
	"github.com/bft-labs/standby/pkg/heartbeat"
)

// PrimaryConfig holds the primary's pacing.
type PrimaryConfig struct {
	// TickInterval is the pause between two emitted values.
	TickInterval time.Duration
}

// Primary produces the counter sequence and announces each value as a heartbeat.
type Primary struct {
	cfg     PrimaryConfig
	counter domain.Counter
	sender  ports.HeartbeatSender
	sink    ports.CounterSink
	clock   clock.Clock
	logger  ports.Logger
	metrics ports.Metrics
}

// NewPrimary creates a primary that will emit counter first.
func NewPrimary(
	cfg PrimaryConfig,
	counter domain.Counter,
	sender ports.HeartbeatSender,
	sink ports.CounterSink,
	clk clock.Clock,
	logger ports.Logger,
	metrics ports.Metrics,
) *Primary {
	return &Primary{
		cfg:     cfg,
		counter: counter,
		sender:  sender,
		sink:    sink,
		clock:   clk,
		logger:  logger,
		metrics: metrics,
	}
}

// Run emits one value per tick until ctx is canceled. The first value is
// emitted immediately. Send failures are logged and never stop the loop.
func (p *Primary) Run(ctx context.Context) error {
	p.logger.Info("primary loop started",
		ports.Uint64("counter", p.counter.Value()),
		ports.Duration("tick", p.cfg.TickInterval),
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.tick(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(p.cfg.TickInterval):
		}
	}
}

func (p *Primary) tick(ctx context.Context) {
	value := p.counter.Next()

	if err := p.sink.Publish(value); err != nil {
		p.logger.Error("failed to publish counter", ports.Uint64("counter", value), ports.Err(err))
	}
	p.metrics.CounterEmitted(value)

	if err := p.sender.Send(ctx, heartbeat.Encode(value)); err != nil {
		p.metrics.HeartbeatSent(false)
		p.logger.Debug("heartbeat not delivered", ports.Uint64("counter", value), ports.Err(err))
		return
	}
	p.metrics.HeartbeatSent(true)
}

// Counter returns the value the next tick will emit.
func (p *Primary) Counter() domain.Counter {
	return p.counter
}

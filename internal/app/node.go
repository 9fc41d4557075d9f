package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

// NodeConfig describes one process of the failover pair. The starting role
// comes from the Lifecycle.
type NodeConfig struct {
	Addr              string
	TickInterval      time.Duration
	HeartbeatInterval time.Duration
	FailureThreshold  time.Duration
}

// NodeDeps holds the collaborators a Node drives.
type NodeDeps struct {
	Lifecycle *Lifecycle
	Transport ports.HeartbeatTransport
	Launcher  ports.Launcher
	Sink      ports.CounterSink
	Clock     clock.Clock
	Logger    ports.Logger
	Metrics   ports.Metrics
	Emitter   EventEmitter
}

// Node runs a process through its role: a primary spawns its backup and
// counts, a backup monitors until the primary goes silent and then takes over.
type Node struct {
	cfg       NodeConfig
	lifecycle *Lifecycle
	transport ports.HeartbeatTransport
	launcher  ports.Launcher
	sink      ports.CounterSink
	clock     clock.Clock
	logger    ports.Logger
	metrics   ports.Metrics
	emitter   EventEmitter

	mu      sync.Mutex
	served  bool
	counter domain.Counter
}

// NewNode creates a node. deps.Lifecycle must already be in PhaseStarting
// when Run is called.
func NewNode(cfg NodeConfig, deps NodeDeps) *Node {
	return &Node{
		cfg:       cfg,
		lifecycle: deps.Lifecycle,
		transport: deps.Transport,
		launcher:  deps.Launcher,
		sink:      deps.Sink,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		emitter:   deps.Emitter,
	}
}

// Run executes the node's role until ctx is canceled or a fatal error occurs.
// Fatal errors are failing to bind or open the heartbeat channel and failing
// to spawn a backup. A node that has already served resumes counting where
// it stopped and does not spawn another backup.
func (n *Node) Run(ctx context.Context) error {
	switch role := n.lifecycle.Role(); role {
	case domain.RolePrimary:
		if counter, ok := n.resumeFrom(); ok {
			return n.serve(ctx, counter, "resumed as primary")
		}
		if err := n.spawnBackup(ctx); err != nil {
			return err
		}
		return n.serve(ctx, domain.InitialCounter, "started as primary")

	case domain.RoleBackup:
		counter, err := n.monitor(ctx)
		if err != nil {
			return err
		}
		return n.promote(ctx, counter)

	default:
		return fmt.Errorf("%w: unknown role %v", domain.ErrInvalidConfig, role)
	}
}

// Counter returns the value the node would emit next if it resumed serving.
func (n *Node) Counter() domain.Counter {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.counter
}

func (n *Node) resumeFrom() (domain.Counter, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.counter, n.served
}

// monitor binds the heartbeat address and blocks until the primary is
// presumed dead. The listener is closed before returning so that the
// replacement backup can bind the same address.
func (n *Node) monitor(ctx context.Context) (domain.Counter, error) {
	receiver, err := n.transport.Listen(n.cfg.Addr)
	if err != nil {
		return 0, fmt.Errorf("listen for heartbeats: %w", err)
	}
	defer func() {
		if err := receiver.Close(); err != nil {
			n.logger.Warn("failed to close heartbeat listener", ports.Err(err))
		}
	}()

	if err := n.lifecycle.TransitionTo(PhaseMonitoring, "listening on "+n.cfg.Addr); err != nil {
		return 0, err
	}
	n.metrics.RoleChanged(domain.RoleBackup)

	monitor := NewMonitor(MonitorConfig{
		HeartbeatInterval: n.cfg.HeartbeatInterval,
		FailureThreshold:  n.cfg.FailureThreshold,
	}, receiver, n.clock, n.logger, n.metrics)

	return monitor.Run(ctx)
}

func (n *Node) promote(ctx context.Context, counter domain.Counter) error {
	if err := n.lifecycle.TransitionTo(PhasePromoting, "heartbeat timeout"); err != nil {
		return err
	}
	n.metrics.Promoted()
	if n.emitter != nil {
		n.emitter.OnPromotion(counter.Value())
	}
	n.logger.Info("promoting to primary", ports.Uint64("counter", counter.Value()))

	if err := n.spawnBackup(ctx); err != nil {
		return err
	}
	return n.serve(ctx, counter, "promoted from backup")
}

func (n *Node) spawnBackup(ctx context.Context) error {
	handle, err := n.launcher.Spawn(ctx, domain.RoleBackup)
	n.metrics.SpawnRequested(err == nil)
	if err != nil {
		return fmt.Errorf("spawn backup: %w", err)
	}
	n.logger.Info("backup spawned", ports.Int("pid", handle.PID))
	return nil
}

func (n *Node) serve(ctx context.Context, counter domain.Counter, reason string) error {
	sender, err := n.transport.Dial(n.cfg.Addr)
	if err != nil {
		return fmt.Errorf("open heartbeat sender: %w", err)
	}
	defer func() {
		if err := sender.Close(); err != nil {
			n.logger.Warn("failed to close heartbeat sender", ports.Err(err))
		}
	}()

	if err := n.lifecycle.TransitionTo(PhaseServing, reason); err != nil {
		return err
	}
	n.metrics.RoleChanged(domain.RolePrimary)

	primary := NewPrimary(PrimaryConfig{TickInterval: n.cfg.TickInterval},
		counter, sender, n.sink, n.clock, n.logger, n.metrics)

	err = primary.Run(ctx)

	n.mu.Lock()
	n.served = true
	n.counter = primary.Counter()
	n.mu.Unlock()

	return err
}

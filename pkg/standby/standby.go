package standby

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/bft-labs/standby/internal/adapters/console"
	logAdapter "github.com/bft-labs/standby/internal/adapters/log"
	"github.com/bft-labs/standby/internal/adapters/metrics"
	"github.com/bft-labs/standby/internal/adapters/process"
	"github.com/bft-labs/standby/internal/adapters/udp"
	"github.com/bft-labs/standby/internal/app"
	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

// BackupFlag is the flag the default launcher appends to start a backup.
const BackupFlag = "backup"

// Standby is one process of a primary/backup failover pair.
// Use New() to create an instance, then Start() to begin.
type Standby struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	node      *app.Node
	emitter   *eventEmitterWrapper
	logger    ports.Logger
	plugins   []Plugin

	mu           sync.Mutex
	cancel       context.CancelFunc
	group        *errgroup.Group
	shutdownOnce *sync.Once
}

// New creates a new Standby instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Standby, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger

	var m ports.Metrics = metrics.NewNop()
	if o.registry != nil {
		p, err := metrics.NewPrometheus(o.registry, o.namespace)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		m = p
	}

	if o.launcher == nil {
		l, err := process.New(process.Config{
			Args:       os.Args[1:],
			BackupFlag: BackupFlag,
			Stdout:     os.Stdout,
			Stderr:     os.Stderr,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create launcher: %w", err)
		}
		o.launcher = l
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}
	lifecycle := app.NewLifecycle(cfg.Role, logger, emitter)

	node := app.NewNode(app.NodeConfig{
		Addr:              cfg.Addr,
		TickInterval:      cfg.TickInterval,
		HeartbeatInterval: cfg.HeartbeatInterval,
		FailureThreshold:  cfg.FailureThreshold,
	}, app.NodeDeps{
		Lifecycle: lifecycle,
		Transport: o.transport,
		Launcher:  o.launcher,
		Sink:      o.sink,
		Clock:     o.clock,
		Logger:    logger,
		Metrics:   m,
		Emitter:   emitter,
	})

	return &Standby{
		config:    cfg,
		opts:      o,
		lifecycle: lifecycle,
		node:      node,
		emitter:   emitter,
		logger:    logger,
		plugins:   o.plugins,
	}, nil
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger:    logAdapter.NewNopLogger(),
		transport: udp.NewTransport(),
		sink:      console.NewSink(os.Stdout),
		clock:     clock.RealClock{},
	}
}

// Start runs the configured role in the background and returns once plugins
// are initialized. Returns an error if already running or if a plugin fails
// to initialize.
func (s *Standby) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	if err := s.lifecycle.TransitionTo(app.PhaseStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	serving := s.emitter.reset()
	shutdownOnce := &sync.Once{}

	pluginCfg := PluginConfig{
		Role:    s.lifecycle.Role(),
		Addr:    s.config.Addr,
		Logger:  s.logger,
		Serving: serving,
	}
	if s.opts.registry != nil {
		pluginCfg.Gatherer = s.opts.registry
	}

	for i, p := range s.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			s.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			s.shutdownPlugins(s.plugins[:i])
			_ = s.lifecycle.TransitionTo(app.PhaseCrashed, "plugin init failed: "+p.Name())
			return err
		}
		s.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		err := s.node.Run(gctx)
		if err == nil || runCtx.Err() != nil {
			return nil
		}

		s.logger.Error("standby crashed", ports.Err(err))
		_ = s.lifecycle.TransitionTo(app.PhaseCrashed, err.Error())
		shutdownOnce.Do(func() { s.shutdownPlugins(s.plugins) })
		return err
	})

	s.cancel = cancel
	s.group = g
	s.shutdownOnce = shutdownOnce

	return nil
}

// Stop cancels the running role, waits up to app.ShutdownTimeout for it to
// return and shuts plugins down. Returns ErrShutdownTimeout if the role did
// not return in time.
func (s *Standby) Stop() error {
	s.mu.Lock()

	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}

	if err := s.lifecycle.TransitionTo(app.PhaseStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}

	if s.cancel != nil {
		s.cancel()
	}
	g, once := s.group, s.shutdownOnce

	s.mu.Unlock()

	var err error
	if g != nil {
		err = waitWithTimeout(g, app.ShutdownTimeout)
	}

	if once != nil {
		once.Do(func() { s.shutdownPlugins(s.plugins) })
	}

	if err != nil {
		_ = s.lifecycle.TransitionTo(app.PhaseCrashed, "shutdown timeout")
	} else {
		_ = s.lifecycle.TransitionTo(app.PhaseStopped, "graceful shutdown")
	}

	return err
}

// Wait blocks until the running role returns. It returns nil after Stop and
// the fatal error after a crash. Returns nil immediately if never started.
func (s *Standby) Wait() error {
	s.mu.Lock()
	g := s.group
	s.mu.Unlock()

	if g == nil {
		return nil
	}
	return g.Wait()
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Standby) Status() State {
	return convertPhase(s.lifecycle.Phase())
}

// Role returns the role the process currently holds. A promoted backup
// reports RolePrimary.
func (s *Standby) Role() Role {
	return s.lifecycle.Role()
}

func (s *Standby) shutdownPlugins(plugins []Plugin) {
	ctx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()

	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			s.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		} else {
			s.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}

func waitWithTimeout(g *errgroup.Group, timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return domain.ErrShutdownTimeout
	}
}

// eventEmitterWrapper adapts EventHandler to app.EventEmitter and tracks
// when the process starts serving.
type eventEmitterWrapper struct {
	handler EventHandler

	mu      sync.Mutex
	serving chan struct{}
}

// reset arms a fresh serving channel for a new run.
func (e *eventEmitterWrapper) reset() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.serving = make(chan struct{})
	return e.serving
}

func (e *eventEmitterWrapper) OnPhaseChange(previous, current app.Phase, reason string) {
	if current == app.PhaseServing {
		e.mu.Lock()
		if e.serving != nil {
			close(e.serving)
			e.serving = nil
		}
		e.mu.Unlock()
	}

	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertPhase(previous),
		Current:  convertPhase(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnPromotion(counter uint64) {
	if e.handler == nil {
		return
	}
	e.handler.OnPromotion(PromotionEvent{Counter: counter})
}

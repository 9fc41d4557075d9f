// Package metricsserver exposes standby's Prometheus metrics over HTTP.
//
// Only the process that is currently counting serves metrics. A backup
// shares the primary's command line and therefore its listen address, so it
// waits until it is promoted before binding.
package metricsserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/standby/internal/ports"
	"github.com/bft-labs/standby/pkg/standby"
)

// Config holds configuration options for the metrics server plugin.
type Config struct {
	// Addr is the TCP address to listen on. The plugin is disabled when empty.
	Addr string

	// Path is the URL path metrics are served under.
	// Default: /metrics
	Path string

	// ReadHeaderTimeout bounds how long a client may take to send headers.
	// Default: 5 seconds
	ReadHeaderTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Path:              "/metrics",
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Plugin serves metrics once the process is serving as primary.
type Plugin struct {
	cfg Config

	mu       sync.Mutex
	logger   standby.Logger
	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a new metrics server plugin with the given configuration.
func New(cfg Config) *Plugin {
	def := DefaultConfig()
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = def.ReadHeaderTimeout
	}
	return &Plugin{cfg: cfg}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "metricsserver"
}

// Initialize prepares the HTTP server and binds it once cfg.Serving closes.
func (p *Plugin) Initialize(ctx context.Context, cfg standby.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger = cfg.Logger

	if p.cfg.Addr == "" {
		p.logger.Debug("metrics server disabled: no address")
		return nil
	}
	if cfg.Gatherer == nil {
		p.logger.Warn("metrics server disabled: metrics are not enabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(p.cfg.Path, promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	p.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: p.cfg.ReadHeaderTimeout,
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.serveWhenPrimary(runCtx, cfg.Serving, p.server)

	return nil
}

func (p *Plugin) serveWhenPrimary(ctx context.Context, serving <-chan struct{}, server *http.Server) {
	defer p.wg.Done()

	select {
	case <-ctx.Done():
		return
	case <-serving:
	}

	l, err := net.Listen("tcp", p.cfg.Addr)
	if err != nil {
		p.logger.Error("metrics server listen failed",
			ports.String("addr", p.cfg.Addr),
			ports.Err(err))
		return
	}

	p.mu.Lock()
	p.listener = l
	p.mu.Unlock()

	p.logger.Info("serving metrics",
		ports.String("addr", l.Addr().String()),
		ports.String("path", p.cfg.Path))

	if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error("metrics server stopped", ports.Err(err))
	}
}

// Addr returns the bound address, or "" if the server is not listening yet.
func (p *Plugin) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listener == nil {
		return ""
	}
	return p.listener.Addr().String()
}

// Shutdown stops the HTTP server.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	cancel, server := p.cancel, p.server
	p.cancel, p.server = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	err := server.Shutdown(ctx)
	p.wg.Wait()

	p.mu.Lock()
	p.listener = nil
	p.mu.Unlock()

	return err
}

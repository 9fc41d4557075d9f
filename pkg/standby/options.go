package standby

import (
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/clock"

	"github.com/bft-labs/standby/internal/ports"
)

// Option configures optional behavior of Standby.
type Option func(*options)

// options holds the optional configuration for a Standby instance.
type options struct {
	logger       ports.Logger
	eventHandler EventHandler
	plugins      []Plugin
	transport    ports.HeartbeatTransport
	launcher     ports.Launcher
	sink         ports.CounterSink
	clock        clock.Clock
	registry     *prometheus.Registry
	namespace    string
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for lifecycle and promotion events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when Standby starts.
// Plugins are initialized in registration order and shutdown in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithTransport replaces the UDP heartbeat transport.
func WithTransport(transport HeartbeatTransport) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithLauncher sets how replacement backups are started.
// If not provided, the running executable is re-executed with its own
// arguments plus --backup.
func WithLauncher(launcher Launcher) Option {
	return func(o *options) {
		o.launcher = launcher
	}
}

// WithSink sets where emitted values go. Defaults to one line per value on
// standard output.
func WithSink(sink CounterSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithClock sets the clock used for ticking and failure detection.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithRegistry enables Prometheus metrics registered on reg under namespace.
// An empty namespace selects "standby".
func WithRegistry(reg *prometheus.Registry, namespace string) Option {
	return func(o *options) {
		o.registry = reg
		o.namespace = namespace
	}
}

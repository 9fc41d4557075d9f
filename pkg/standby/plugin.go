package standby

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Plugin extends a Standby instance with optional functionality.
// Plugins are initialized in registration order on Start and shut down in
// reverse order on Stop or after a crash.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called from Start. ctx is canceled when the run ends.
	// A returned error aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown releases everything Initialize acquired.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to every plugin on Initialize.
type PluginConfig struct {
	// Role is the role the process holds when the run starts. A promoted
	// process restarts as RolePrimary.
	Role Role

	// Addr is the heartbeat address.
	Addr string

	Logger Logger

	// Gatherer exposes the instance's metrics. Nil when metrics are disabled.
	Gatherer prometheus.Gatherer

	// Serving is closed once the process starts counting as primary,
	// either at startup or after a promotion.
	Serving <-chan struct{}
}

// BasePlugin provides no-op implementations of every Plugin method.
type BasePlugin struct{}

func (BasePlugin) Name() string                                   { return "base" }
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }
func (BasePlugin) Shutdown(context.Context) error                 { return nil }

package metricsserver

import "github.com/bft-labs/standby/pkg/standby"

// WithMetricsServer returns a standby Option that serves metrics over HTTP.
// Metrics must be enabled with standby.WithRegistry for anything to be served.
//
// Usage:
//
//	s, err := standby.New(cfg,
//	    standby.WithRegistry(prometheus.NewRegistry(), ""),
//	    metricsserver.WithMetricsServer(metricsserver.Config{Addr: ":9090"}),
//	)
func WithMetricsServer(cfg Config) standby.Option {
	return standby.WithPlugin(New(cfg))
}

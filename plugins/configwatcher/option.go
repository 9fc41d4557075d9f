package configwatcher

import "github.com/bft-labs/standby/pkg/standby"

// WithConfigWatcher returns a standby Option that enables config file watching.
//
// Usage:
//
//	s, err := standby.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path:   "/etc/standby/config.toml",
//	        Reload: applyLogLevel,
//	    }),
//	)
func WithConfigWatcher(cfg Config) standby.Option {
	plugin := New(cfg)
	return standby.WithPlugin(plugin)
}

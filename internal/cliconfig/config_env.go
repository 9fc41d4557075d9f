package cliconfig

import "os"

// EnvPrefix prefixes every environment variable standby reads.
const EnvPrefix = "STANDBY_"

// ApplyEnvConfig applies configuration from environment variables (STANDBY_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("addr", os.Getenv(EnvPrefix+"ADDR"), &cfg.Addr)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)
	s.setString("metrics-addr", os.Getenv(EnvPrefix+"METRICS_ADDR"), &cfg.MetricsAddr)

	if err := s.setDuration("tick", os.Getenv(EnvPrefix+"TICK_INTERVAL"), &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("heartbeat-interval", os.Getenv(EnvPrefix+"HEARTBEAT_INTERVAL"), &cfg.HeartbeatInterval); err != nil {
		return err
	}
	if err := s.setDuration("failure-threshold", os.Getenv(EnvPrefix+"FAILURE_THRESHOLD"), &cfg.FailureThreshold); err != nil {
		return err
	}

	return nil
}

package cliconfig

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/standby/internal/domain"
)

// DefaultAddr is the loopback address the heartbeat channel binds to.
const DefaultAddr = "127.0.0.1:34254"

// BackupFlag is the command-line flag that starts a process as the backup.
// The launcher appends it when spawning a replacement backup.
const BackupFlag = "backup"

// Config holds CLI configuration for standby.
type Config struct {
	// Backup selects the backup role. It is only ever set from the command
	// line so that a spawned process cannot be talked out of its role by
	// the environment it inherits.
	Backup bool

	Addr string

	TickInterval      time.Duration
	HeartbeatInterval time.Duration
	FailureThreshold  time.Duration

	LogLevel    string
	MetricsAddr string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Addr:              DefaultAddr,
		TickInterval:      time.Second,
		HeartbeatInterval: 500 * time.Millisecond,
		FailureThreshold:  2 * time.Second,
		LogLevel:          zerolog.InfoLevel.String(),
	}
}

// Role returns the role selected by the configuration.
func (c Config) Role() domain.Role {
	return domain.RoleFromFlag(c.Backup)
}

// Level returns the parsed log level.
func (c Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(c.LogLevel)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", domain.ErrInvalidConfig)
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w: addr %q: %v", domain.ErrInvalidConfig, c.Addr, err)
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", domain.ErrInvalidConfig)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeat interval must be positive", domain.ErrInvalidConfig)
	}
	if c.FailureThreshold <= c.HeartbeatInterval {
		return fmt.Errorf("%w: failure threshold %s must exceed heartbeat interval %s",
			domain.ErrInvalidConfig, c.FailureThreshold, c.HeartbeatInterval)
	}
	if c.FailureThreshold <= c.TickInterval {
		return fmt.Errorf("%w: failure threshold %s must exceed tick interval %s",
			domain.ErrInvalidConfig, c.FailureThreshold, c.TickInterval)
	}

	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: log level: %v", domain.ErrInvalidConfig, err)
	}

	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return fmt.Errorf("%w: metrics addr %q: %v", domain.ErrInvalidConfig, c.MetricsAddr, err)
		}
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

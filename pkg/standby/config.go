package standby

import (
	"fmt"
	"net"
	"time"

	"github.com/bft-labs/standby/internal/domain"
)

// Default timing and address values.
const (
	DefaultAddr              = "127.0.0.1:34254"
	DefaultTickInterval      = time.Second
	DefaultHeartbeatInterval = 500 * time.Millisecond
	DefaultFailureThreshold  = 2 * time.Second
)

// Config configures one process of the failover pair.
type Config struct {
	// Role selects whether the process starts as primary or backup.
	Role Role

	// Addr is the UDP address the backup binds and the primary sends to.
	Addr string

	// TickInterval is the pause between two emitted values.
	TickInterval time.Duration

	// HeartbeatInterval bounds a single blocking receive on the backup.
	HeartbeatInterval time.Duration

	// FailureThreshold is how long the primary may stay silent before the
	// backup takes over. It must exceed both intervals above.
	FailureThreshold time.Duration
}

// SetDefaults fills zero values with their defaults.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Role != RolePrimary && c.Role != RoleBackup {
		return fmt.Errorf("%w: unknown role %v", domain.ErrInvalidConfig, c.Role)
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w: addr %q: %v", domain.ErrInvalidConfig, c.Addr, err)
	}
	if c.TickInterval <= 0 || c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: intervals must be positive", domain.ErrInvalidConfig)
	}
	if c.FailureThreshold <= c.HeartbeatInterval || c.FailureThreshold <= c.TickInterval {
		return fmt.Errorf("%w: failure threshold %s must exceed tick %s and heartbeat interval %s",
			domain.ErrInvalidConfig, c.FailureThreshold, c.TickInterval, c.HeartbeatInterval)
	}
	return nil
}

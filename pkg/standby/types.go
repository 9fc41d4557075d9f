package standby

import (
	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

// Role is the part a process plays in the failover pair.
type Role = domain.Role

const (
	// RolePrimary counts and announces every value.
	RolePrimary = domain.RolePrimary
	// RoleBackup watches the primary and takes over when it goes silent.
	RoleBackup = domain.RoleBackup
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// HeartbeatTransport opens the two ends of the heartbeat channel.
type HeartbeatTransport = ports.HeartbeatTransport

// Launcher starts replacement backup processes.
type Launcher = ports.Launcher

// ProcessHandle identifies a spawned process.
type ProcessHandle = ports.Handle

// CounterSink receives every value the primary emits.
type CounterSink = ports.CounterSink

// Errors returned by the package.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrAddressInUse    = domain.ErrAddressInUse
	ErrSpawnFailed     = domain.ErrSpawnFailed
)

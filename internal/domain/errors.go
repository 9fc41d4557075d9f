package domain

import "errors"

// Domain errors represent error conditions in the standby domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("standby: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("standby: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("standby: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("standby: invalid configuration")

	// ErrInvalidTransition is returned when a phase change is not allowed
	// from the current phase.
	ErrInvalidTransition = errors.New("standby: invalid phase transition")

	// ErrReceiveTimeout is returned by a heartbeat receiver when no datagram
	// arrived within the wait window. It is expected and not a failure.
	ErrReceiveTimeout = errors.New("standby: heartbeat receive timeout")

	// ErrAddressInUse is returned when the rendezvous address is already bound,
	// which means another backup is listening.
	ErrAddressInUse = errors.New("standby: rendezvous address already in use")

	// ErrSpawnFailed is returned when a replacement backup process could not be
	// started. Failover protection is lost until an operator intervenes.
	ErrSpawnFailed = errors.New("standby: failed to spawn backup process")
)

package ports

import "github.com/bft-labs/standby/internal/domain"

// Metrics records failover and heartbeat events.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// HeartbeatSent records a send attempt and whether the transport accepted it.
	HeartbeatSent(ok bool)

	// HeartbeatReceived records a received datagram and whether it parsed.
	HeartbeatReceived(parsed bool)

	// ReceiveError records a non-timeout receive failure.
	ReceiveError()

	// CounterEmitted records the latest value published by the primary loop.
	CounterEmitted(value uint64)

	// CounterObserved records the latest value learned from a heartbeat.
	CounterObserved(value uint64)

	// Promoted records a backup promoting itself to primary.
	Promoted()

	// SpawnRequested records a request to start a backup and its outcome.
	SpawnRequested(ok bool)

	// RoleChanged records the role the process currently holds.
	RoleChanged(role domain.Role)
}

package ports

import (
	"context"
	"time"
)

// HeartbeatTransport opens the two ends of the heartbeat channel at a
// rendezvous address. Delivery is best effort: datagrams may be lost,
// duplicated or reordered.
type HeartbeatTransport interface {
	// Listen binds the receiving end at addr.
	// Returns domain.ErrAddressInUse (wrapped) if another receiver holds addr.
	Listen(addr string) (HeartbeatReceiver, error)

	// Dial opens an ephemeral sending end connected to addr.
	Dial(addr string) (HeartbeatSender, error)
}

// HeartbeatReceiver is the backup's end of the heartbeat channel.
type HeartbeatReceiver interface {
	// Receive waits at most timeout for one datagram and returns its payload.
	// Returns domain.ErrReceiveTimeout if nothing arrived in time.
	// Any other error is a transport failure.
	Receive(ctx context.Context, timeout time.Duration) ([]byte, error)

	// Close releases the rendezvous address.
	Close() error
}

// HeartbeatSender is the primary's end of the heartbeat channel.
type HeartbeatSender interface {
	// Send transmits one payload. A nil error does not imply delivery.
	Send(ctx context.Context, payload []byte) error

	// Close releases the local endpoint.
	Close() error
}

package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
	"github.com/bft-labs/standby/pkg/heartbeat"
)

// Transport implements ports.HeartbeatTransport using UDP sockets.
type Transport struct{}

// NewTransport creates a UDP heartbeat transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Listen binds the rendezvous address for receiving heartbeats.
func (t *Transport) Listen(addr string) (ports.HeartbeatReceiver, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		if isAddrInUse(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAddressInUse, addr)
		}
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	return &Listener{conn: conn}, nil
}

// Dial opens an ephemeral local endpoint connected to the rendezvous address.
func (t *Transport) Dial(addr string) (ports.HeartbeatSender, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return &Sender{conn: conn}, nil
}

// Listener is the receiving end of the heartbeat channel.
type Listener struct {
	conn *net.UDPConn
}

// Receive waits up to timeout for one datagram. Cancelling ctx interrupts
// the wait.
func (l *Listener) Receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = l.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, heartbeat.MaxPayloadSize)
	n, _, err := l.conn.ReadFromUDP(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, domain.ErrReceiveTimeout
		}
		return nil, fmt.Errorf("receive heartbeat: %w", err)
	}
	return buf[:n], nil
}

// Addr returns the bound local address.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Close releases the rendezvous address.
func (l *Listener) Close() error {
	return l.conn.Close()
}

// Sender is the sending end of the heartbeat channel.
type Sender struct {
	conn *net.UDPConn
}

// Send writes one datagram. Errors such as ICMP port unreachable from a
// previous send are reported here and are not fatal to the connection.
func (s *Sender) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.conn.Write(payload); err != nil {
		return fmt.Errorf("send heartbeat: %w", err)
	}
	return nil
}

// Close releases the local endpoint.
func (s *Sender) Close() error {
	return s.conn.Close()
}

var (
	_ ports.HeartbeatTransport = (*Transport)(nil)
	_ ports.HeartbeatReceiver  = (*Listener)(nil)
	_ ports.HeartbeatSender    = (*Sender)(nil)
)

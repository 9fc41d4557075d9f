package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// delivery is one scripted datagram. after is how much fake time passes
// before it arrives.
type delivery struct {
	after   time.Duration
	payload []byte
	err     error
}

// scriptedReceiver replays deliveries against a fake clock. A delivery that
// lies further out than the receive timeout produces timeouts first, and an
// exhausted script times out forever.
type scriptedReceiver struct {
	mu        sync.Mutex
	clock     *testingclock.FakeClock
	script    []delivery
	calls     int
	closed    bool
	onReceive func()
}

func newScriptedReceiver(clk *testingclock.FakeClock, script ...delivery) *scriptedReceiver {
	return &scriptedReceiver{clock: clk, script: script}
}

func (r *scriptedReceiver) Receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.onReceive != nil {
		r.onReceive()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.calls++

	if len(r.script) == 0 {
		r.clock.Step(timeout)
		return nil, domain.ErrReceiveTimeout
	}

	next := &r.script[0]
	if next.after > timeout {
		r.clock.Step(timeout)
		next.after -= timeout
		return nil, domain.ErrReceiveTimeout
	}

	r.clock.Step(next.after)
	r.script = r.script[1:]
	return next.payload, next.err
}

func (r *scriptedReceiver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *scriptedReceiver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *scriptedReceiver) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// recordingSender stores every payload and fails each send with err.
type recordingSender struct {
	mu       sync.Mutex
	err      error
	payloads []string
	closed   bool
}

func (s *recordingSender) Send(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, string(payload))
	return s.err
}

func (s *recordingSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSender) Payloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.payloads...)
}

func (s *recordingSender) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeTransport struct {
	receiver  *scriptedReceiver
	sender    *recordingSender
	listenErr error
	dialErr   error

	mu      sync.Mutex
	listens []string
	dials   []string
}

func (f *fakeTransport) Listen(addr string) (ports.HeartbeatReceiver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listens = append(f.listens, addr)
	if f.listenErr != nil {
		return nil, f.listenErr
	}
	return f.receiver, nil
}

func (f *fakeTransport) Dial(addr string) (ports.HeartbeatSender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dials = append(f.dials, addr)
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return f.sender, nil
}

func (f *fakeTransport) Listens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.listens...)
}

func (f *fakeTransport) Dials() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.dials...)
}

type fakeLauncher struct {
	mu      sync.Mutex
	err     error
	roles   []domain.Role
	onSpawn func()
}

func (l *fakeLauncher) Spawn(ctx context.Context, role domain.Role) (ports.Handle, error) {
	if l.onSpawn != nil {
		l.onSpawn()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return ports.Handle{}, err
	}
	l.roles = append(l.roles, role)
	if l.err != nil {
		return ports.Handle{}, l.err
	}
	return ports.Handle{PID: 1000 + len(l.roles)}, nil
}

func (l *fakeLauncher) Spawns() []domain.Role {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Role{}, l.roles...)
}

type chanSink struct {
	values chan uint64
}

func newChanSink() *chanSink {
	return &chanSink{values: make(chan uint64, 64)}
}

func (s *chanSink) Publish(value uint64) error {
	s.values <- value
	return nil
}

// metricCounts is a snapshot of countingMetrics.
type metricCounts struct {
	sent          int
	sendFailed    int
	parsed        int
	malformed     int
	receiveErrors int
	promotions    int
	spawns        int
	spawnFailures int
	emitted       uint64
	observed      uint64
	roles         []domain.Role
}

type countingMetrics struct {
	mu sync.Mutex
	c  metricCounts
}

func (m *countingMetrics) HeartbeatSent(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.c.sent++
	} else {
		m.c.sendFailed++
	}
}

func (m *countingMetrics) HeartbeatReceived(parsed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if parsed {
		m.c.parsed++
	} else {
		m.c.malformed++
	}
}

func (m *countingMetrics) ReceiveError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.receiveErrors++
}

func (m *countingMetrics) CounterEmitted(value uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.emitted = value
}

func (m *countingMetrics) CounterObserved(value uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.observed = value
}

func (m *countingMetrics) Promoted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.promotions++
}

func (m *countingMetrics) SpawnRequested(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.c.spawns++
	} else {
		m.c.spawnFailures++
	}
}

func (m *countingMetrics) RoleChanged(role domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.roles = append(m.c.roles, role)
}

func (m *countingMetrics) Snapshot() metricCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.c
	c.roles = append([]domain.Role{}, m.c.roles...)
	return c
}

var (
	_ ports.HeartbeatReceiver  = (*scriptedReceiver)(nil)
	_ ports.HeartbeatSender    = (*recordingSender)(nil)
	_ ports.HeartbeatTransport = (*fakeTransport)(nil)
	_ ports.Launcher           = (*fakeLauncher)(nil)
	_ ports.CounterSink        = (*chanSink)(nil)
	_ ports.Metrics            = (*countingMetrics)(nil)
)

// nextValue waits for the next published counter value.
func nextValue(t *testing.T, sink *chanSink) uint64 {
	t.Helper()
	select {
	case v := <-sink.values:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a counter value")
		return 0
	}
}

// stepWhenWaiting advances clk by d once something is blocked on it.
func stepWhenWaiting(t *testing.T, clk *testingclock.FakeClock, d time.Duration) {
	t.Helper()
	require.Eventually(t, clk.HasWaiters, 5*time.Second, time.Millisecond)
	clk.Step(d)
}

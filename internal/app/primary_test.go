package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/bft-labs/standby/internal/domain"
)

type primaryHarness struct {
	clock   *testingclock.FakeClock
	sender  *recordingSender
	sink    *chanSink
	metrics *countingMetrics
	cancel  context.CancelFunc
	done    chan error
}

func startPrimary(t *testing.T, counter domain.Counter, sendErr error) *primaryHarness {
	t.Helper()

	h := &primaryHarness{
		clock:   testingclock.NewFakeClock(epoch),
		sender:  &recordingSender{err: sendErr},
		sink:    newChanSink(),
		metrics: &countingMetrics{},
		done:    make(chan error, 1),
	}

	p := NewPrimary(PrimaryConfig{TickInterval: time.Second},
		counter, h.sender, h.sink, h.clock, mockLogger{}, h.metrics)

	ctx, cancel := context.WithCancel(t.Context())
	h.cancel = cancel
	go func() { h.done <- p.Run(ctx) }()

	return h
}

func (h *primaryHarness) stop(t *testing.T) error {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("primary did not stop")
		return nil
	}
}

func TestPrimary_EmitsOncePerTick(t *testing.T) {
	h := startPrimary(t, domain.InitialCounter, nil)

	for want := uint64(1); want <= 5; want++ {
		require.Equal(t, want, nextValue(t, h.sink))
		stepWhenWaiting(t, h.clock, time.Second)
	}
	require.Equal(t, uint64(6), nextValue(t, h.sink))

	require.ErrorIs(t, h.stop(t), context.Canceled)
	require.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, h.sender.Payloads())
	require.Equal(t, 6, h.metrics.Snapshot().sent)
}

func TestPrimary_NoEmissionBeforeTickElapses(t *testing.T) {
	h := startPrimary(t, domain.InitialCounter, nil)

	require.Equal(t, uint64(1), nextValue(t, h.sink))
	require.Eventually(t, h.clock.HasWaiters, 5*time.Second, time.Millisecond)

	h.clock.Step(999 * time.Millisecond)
	select {
	case v := <-h.sink.values:
		t.Fatalf("emitted %d before the tick elapsed", v)
	case <-time.After(50 * time.Millisecond):
	}

	h.clock.Step(time.Millisecond)
	require.Equal(t, uint64(2), nextValue(t, h.sink))

	require.ErrorIs(t, h.stop(t), context.Canceled)
}

func TestPrimary_ResumesFromInheritedCounter(t *testing.T) {
	h := startPrimary(t, domain.Counter(42), nil)

	for _, want := range []uint64{42, 43, 44} {
		require.Equal(t, want, nextValue(t, h.sink))
		stepWhenWaiting(t, h.clock, time.Second)
	}
	require.Equal(t, uint64(45), nextValue(t, h.sink))

	require.ErrorIs(t, h.stop(t), context.Canceled)
}

func TestPrimary_SendFailuresDoNotStopCounting(t *testing.T) {
	h := startPrimary(t, domain.InitialCounter, errors.New("connection refused"))

	for want := uint64(1); want <= 3; want++ {
		require.Equal(t, want, nextValue(t, h.sink))
		stepWhenWaiting(t, h.clock, time.Second)
	}
	require.Equal(t, uint64(4), nextValue(t, h.sink))

	require.ErrorIs(t, h.stop(t), context.Canceled)

	c := h.metrics.Snapshot()
	require.Equal(t, 4, c.sendFailed)
	require.Zero(t, c.sent)
	require.Equal(t, uint64(4), c.emitted)
}

func TestPrimary_CanceledBeforeRun(t *testing.T) {
	clk := testingclock.NewFakeClock(epoch)
	sink := newChanSink()
	p := NewPrimary(PrimaryConfig{TickInterval: time.Second},
		domain.InitialCounter, &recordingSender{}, sink, clk, mockLogger{}, &countingMetrics{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, p.Run(ctx), context.Canceled)
	require.Empty(t, sink.values)
	require.Equal(t, domain.InitialCounter, p.Counter())
}

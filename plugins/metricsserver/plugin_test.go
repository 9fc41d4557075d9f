package metricsserver

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/standby/internal/ports"
	"github.com/bft-labs/standby/pkg/standby"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...ports.Field) {}
func (noopLogger) Info(msg string, fields ...ports.Field)  {}
func (noopLogger) Warn(msg string, fields ...ports.Field)  {}
func (noopLogger) Error(msg string, fields ...ports.Field) {}

func newRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "standby",
		Name:      "test_total",
		Help:      "Test counter.",
	})
	c.Add(3)
	require.NoError(t, reg.Register(c))
	return reg
}

func TestPlugin_ServesOnlyOncePrimary(t *testing.T) {
	serving := make(chan struct{})
	plugin := New(Config{Addr: "127.0.0.1:0"})

	require.NoError(t, plugin.Initialize(t.Context(), standby.PluginConfig{
		Logger:   noopLogger{},
		Gatherer: newRegistry(t),
		Serving:  serving,
	}))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, plugin.Addr(), "must not bind while monitoring")

	close(serving)
	require.Eventually(t, func() bool { return plugin.Addr() != "" }, 5*time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + plugin.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "standby_test_total 3")

	require.NoError(t, plugin.Shutdown(context.Background()))
	require.Empty(t, plugin.Addr())
}

func TestPlugin_ShutdownBeforeServing(t *testing.T) {
	plugin := New(Config{Addr: "127.0.0.1:0"})

	require.NoError(t, plugin.Initialize(t.Context(), standby.PluginConfig{
		Logger:   noopLogger{},
		Gatherer: newRegistry(t),
		Serving:  make(chan struct{}),
	}))
	require.NoError(t, plugin.Shutdown(context.Background()))
	require.Empty(t, plugin.Addr())
}

func TestPlugin_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		pc   standby.PluginConfig
	}{
		{"no address", DefaultConfig(), standby.PluginConfig{Logger: noopLogger{}, Gatherer: prometheus.NewRegistry()}},
		{"no gatherer", Config{Addr: "127.0.0.1:0"}, standby.PluginConfig{Logger: noopLogger{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugin := New(tt.cfg)
			require.NoError(t, plugin.Initialize(t.Context(), tt.pc))
			require.NoError(t, plugin.Shutdown(context.Background()))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	plugin := New(Config{Addr: ":9090"})

	require.Equal(t, "/metrics", plugin.cfg.Path)
	require.Equal(t, 5*time.Second, plugin.cfg.ReadHeaderTimeout)
	require.Equal(t, "metricsserver", plugin.Name())
}

package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"STANDBY_ADDR":               "127.0.0.1:4000",
				"STANDBY_TICK_INTERVAL":      "250ms",
				"STANDBY_HEARTBEAT_INTERVAL": "100ms",
				"STANDBY_FAILURE_THRESHOLD":  "1s",
				"STANDBY_LOG_LEVEL":          "debug",
				"STANDBY_METRICS_ADDR":       ":9100",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Addr:              "127.0.0.1:4000",
				TickInterval:      250 * time.Millisecond,
				HeartbeatInterval: 100 * time.Millisecond,
				FailureThreshold:  time.Second,
				LogLevel:          "debug",
				MetricsAddr:       ":9100",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"STANDBY_ADDR":      "127.0.0.1:4000",
				"STANDBY_LOG_LEVEL": "warn",
			},
			changed: map[string]bool{"addr": true},
			initial: Config{Addr: "127.0.0.1:5000"},
			expected: Config{
				Addr:     "127.0.0.1:5000",
				LogLevel: "warn",
			},
		},
		{
			name: "leaves unset values alone",
			envVars: map[string]string{
				"STANDBY_TICK_INTERVAL": "",
			},
			changed:  map[string]bool{},
			initial:  Config{TickInterval: time.Second},
			expected: Config{TickInterval: time.Second},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"STANDBY_FAILURE_THRESHOLD": "not-a-duration",
			},
			changed: map[string]bool{},
			initial: Config{},
			wantErr: true,
		},
		{
			name: "never selects the role",
			envVars: map[string]string{
				"STANDBY_BACKUP": "true",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	fileConf := FileConfig{
		Addr:             "127.0.0.1:1111",
		LogLevel:         "error",
		FailureThreshold: "5s",
	}

	t.Setenv("STANDBY_ADDR", "127.0.0.1:2222")
	t.Setenv("STANDBY_LOG_LEVEL", "warn")

	// Simulate CLI flags
	changed := map[string]bool{
		"addr": true,
	}

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:3333"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Addr != "127.0.0.1:3333" {
		t.Errorf("Addr = %v, want 127.0.0.1:3333 (CLI should win)", cfg.Addr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn (env should override file)", cfg.LogLevel)
	}
	if cfg.FailureThreshold != 5*time.Second {
		t.Errorf("FailureThreshold = %v, want 5s (file should set)", cfg.FailureThreshold)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("TickInterval = %v, want default 1s", cfg.TickInterval)
	}
}

package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFromFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		changed   map[string]bool
		env       string
		wantLevel zerolog.Level
		wantOK    bool
		wantErr   bool
	}{
		{
			name:      "file sets level",
			content:   `log_level = "debug"`,
			wantLevel: zerolog.DebugLevel,
			wantOK:    true,
		},
		{
			name:      "file leaves level unset",
			content:   `addr = "127.0.0.1:4000"`,
			wantLevel: zerolog.NoLevel,
		},
		{
			name:      "flag pins level",
			content:   `log_level = "debug"`,
			changed:   map[string]bool{"log-level": true},
			wantLevel: zerolog.NoLevel,
		},
		{
			name:      "env pins level",
			content:   `log_level = "debug"`,
			env:       "warn",
			wantLevel: zerolog.NoLevel,
		},
		{
			name:      "unknown level",
			content:   `log_level = "loud"`,
			wantLevel: zerolog.NoLevel,
			wantErr:   true,
		},
		{
			name:      "broken file",
			content:   `log_level = `,
			wantLevel: zerolog.NoLevel,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvPrefix+"LOG_LEVEL", tt.env)

			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			level, ok, err := LevelFromFile(path, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LevelFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Errorf("LevelFromFile() ok = %v, want %v", ok, tt.wantOK)
			}
			if level != tt.wantLevel {
				t.Errorf("LevelFromFile() level = %v, want %v", level, tt.wantLevel)
			}
		})
	}
}

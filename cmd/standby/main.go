package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/standby/internal/adapters/log"
	"github.com/bft-labs/standby/internal/cliconfig"
	"github.com/bft-labs/standby/pkg/standby"
	"github.com/bft-labs/standby/plugins/configwatcher"
	"github.com/bft-labs/standby/plugins/metricsserver"
)

const longHelp = `
Count forever, even when the counter crashes.

standby runs as a pair of processes. The primary prints an increasing
counter once per tick and announces each value over UDP on a loopback
address. The backup listens on that address and, once the primary has been
silent for longer than the failure threshold, takes over: it spawns a new
backup and keeps counting from the last value it heard.

Start the primary; it spawns its own backup. Kill the primary at any time
and watch the backup carry on.
`

var exampleUsage = strings.TrimSpace(`
  standby
  standby --tick 250ms --failure-threshold 1s
  standby --metrics-addr 127.0.0.1:9090 --log-level debug
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "standby",
		Short:   "Primary/backup counter that survives the primary's death",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			level, err := cfg.Level()
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(level)

			log = log.With().Str("role", cfg.Role().String()).Logger()
			log.Debug().Interface("config", cfg).Msg("configuration")

			opts := []standby.Option{
				standby.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
				standby.WithEventHandler(&promotionLogger{log: log}),
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				opts = append(opts, configwatcher.WithConfigWatcher(configwatcher.Config{
					Path:   cfgFile,
					Reload: reloadLogLevel(log, changed),
				}))
			}

			if cfg.MetricsAddr != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				opts = append(opts,
					standby.WithRegistry(reg, ""),
					metricsserver.WithMetricsServer(metricsserver.Config{Addr: cfg.MetricsAddr}),
				)
			}

			s, err := standby.New(standby.Config{
				Role:              cfg.Role(),
				Addr:              cfg.Addr,
				TickInterval:      cfg.TickInterval,
				HeartbeatInterval: cfg.HeartbeatInterval,
				FailureThreshold:  cfg.FailureThreshold,
			}, opts...)
			if err != nil {
				return fmt.Errorf("create standby: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("start standby: %w", err)
			}

			runErr := make(chan error, 1)
			go func() { runErr <- s.Wait() }()

			select {
			case <-ctx.Done():
				log.Info().Msg("received signal, stopping...")
			case err := <-runErr:
				if err != nil {
					return err
				}
			}

			if err := s.Stop(); err != nil && !errors.Is(err, standby.ErrNotRunning) {
				return fmt.Errorf("stop standby: %w", err)
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.standby/config.toml)")
	root.Flags().BoolVar(&cfg.Backup, cliconfig.BackupFlag, false, "start as the backup (set by the primary when it spawns one)")
	root.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "UDP address of the heartbeat channel")
	root.Flags().DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "pause between two emitted values")
	root.Flags().DurationVar(&cfg.HeartbeatInterval, "heartbeat-interval", cfg.HeartbeatInterval, "backup receive timeout")
	root.Flags().DurationVar(&cfg.FailureThreshold, "failure-threshold", cfg.FailureThreshold, "silence after which the backup takes over")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address while primary (disabled when empty)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("standby")
		os.Exit(1)
	}
}

// reloadLogLevel applies a changed log_level from the config file.
func reloadLogLevel(log zerolog.Logger, changed map[string]bool) configwatcher.ReloadFunc {
	return func(path string) error {
		level, ok, err := cliconfig.LevelFromFile(path, changed)
		if err != nil || !ok {
			return err
		}
		if level != zerolog.GlobalLevel() {
			zerolog.SetGlobalLevel(level)
			log.Info().Str("level", level.String()).Msg("log level changed")
		}
		return nil
	}
}

// promotionLogger reports takeovers at warn level so they stand out.
type promotionLogger struct {
	standby.BaseEventHandler
	log zerolog.Logger
}

func (h *promotionLogger) OnPromotion(event standby.PromotionEvent) {
	h.log.Warn().Uint64("counter", event.Counter).Msg("primary lost, taking over")
}

// Package standby provides an embeddable primary/backup failover pair.
//
// A primary emits an increasing counter once per tick and announces every
// value as a UDP heartbeat on a loopback address. A backup listens on that
// address, remembers the latest value, and takes over when the primary has
// been silent for longer than the failure threshold. On takeover it spawns a
// fresh backup and resumes counting from the value it last heard, so the
// printed sequence continues across a crash without skipping ahead.
//
// # Basic Usage
//
//	s, err := standby.New(standby.Config{Role: standby.RolePrimary})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
//	if err := s.Wait(); err != nil {
//	    log.Fatal(err)
//	}
//
// Zero-valued [Config] fields take the defaults set by [Config.SetDefaults]:
// 127.0.0.1:34254, a one second tick, a 500ms receive timeout and a two
// second failure threshold.
//
// # Spawning Backups
//
// By default the running executable is re-executed with its own arguments
// plus --backup, detached from the parent's process group so that it
// survives the parent. Use [WithLauncher] to start backups differently.
//
// # Event Handling
//
// Implement [EventHandler] (embedding [BaseEventHandler] for defaults) and
// pass it via [WithEventHandler] to observe state changes and promotions.
// Events are delivered synchronously from the goroutine running the role.
//
// # Lifecycle States
//
// A Standby instance moves through [StateStopped], [StateStarting],
// [StateMonitoring] (backups only), [StatePromoting], [StateServing],
// [StateStopping] and [StateCrashed]. Use [Standby.Status] to query it and
// [Standby.Role] to learn whether a backup has taken over.
//
// # Plugins
//
// Plugins registered with [WithPlugin] are initialized on Start in
// registration order and shut down in reverse order:
//
//	import "github.com/bft-labs/standby/plugins/metricsserver"
//
//	s, err := standby.New(cfg,
//	    standby.WithRegistry(prometheus.NewRegistry(), ""),
//	    metricsserver.WithMetricsServer(metricsserver.Config{Addr: ":9090"}),
//	)
package standby

// Package metrics records heartbeat and failover events.
//
// [Prometheus] exposes them through a prometheus.Registerer; [Nop] discards
// them and is the default when no registry is configured.
package metrics

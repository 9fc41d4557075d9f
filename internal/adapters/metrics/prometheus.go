package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/standby/internal/domain"
	"github.com/bft-labs/standby/internal/ports"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "standby"

// Prometheus implements ports.Metrics with Prometheus collectors.
type Prometheus struct {
	heartbeatsSent     *prometheus.CounterVec
	heartbeatsReceived *prometheus.CounterVec
	receiveErrors      prometheus.Counter
	counterEmitted     prometheus.Gauge
	counterObserved    prometheus.Gauge
	promotions         prometheus.Counter
	spawns             *prometheus.CounterVec
	role               *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer; an empty namespace uses
// DefaultNamespace.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	p := &Prometheus{
		heartbeatsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "sent_total",
			Help:      "Heartbeat send attempts by result (ok, error).",
		}, []string{"result"}),
		heartbeatsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "received_total",
			Help:      "Heartbeat datagrams received by payload (parsed, malformed).",
		}, []string{"payload"}),
		receiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "heartbeat",
			Name:      "receive_errors_total",
			Help:      "Receive failures other than timeouts.",
		}),
		counterEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "counter",
			Name:      "emitted",
			Help:      "Last counter value emitted by the primary loop.",
		}),
		counterObserved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "counter",
			Name:      "observed",
			Help:      "Last counter value learned from a heartbeat.",
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "failover",
			Name:      "promotions_total",
			Help:      "Backup to primary promotions.",
		}),
		spawns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "failover",
			Name:      "spawns_total",
			Help:      "Backup spawn requests by result (ok, error).",
		}, []string{"result"}),
		role: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "role",
			Help:      "1 for the role this process currently holds, 0 otherwise.",
		}, []string{"role"}),
	}

	collectors := []prometheus.Collector{
		p.heartbeatsSent, p.heartbeatsReceived, p.receiveErrors,
		p.counterEmitted, p.counterObserved,
		p.promotions, p.spawns, p.role,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// HeartbeatSent records a send attempt.
func (p *Prometheus) HeartbeatSent(ok bool) {
	p.heartbeatsSent.WithLabelValues(result(ok)).Inc()
}

// HeartbeatReceived records a received datagram.
func (p *Prometheus) HeartbeatReceived(parsed bool) {
	payload := "malformed"
	if parsed {
		payload = "parsed"
	}
	p.heartbeatsReceived.WithLabelValues(payload).Inc()
}

// ReceiveError records a non-timeout receive failure.
func (p *Prometheus) ReceiveError() {
	p.receiveErrors.Inc()
}

// CounterEmitted records the latest emitted value.
func (p *Prometheus) CounterEmitted(value uint64) {
	p.counterEmitted.Set(float64(value))
}

// CounterObserved records the latest value carried by a heartbeat.
func (p *Prometheus) CounterObserved(value uint64) {
	p.counterObserved.Set(float64(value))
}

// Promoted records a promotion.
func (p *Prometheus) Promoted() {
	p.promotions.Inc()
}

// SpawnRequested records a spawn request.
func (p *Prometheus) SpawnRequested(ok bool) {
	p.spawns.WithLabelValues(result(ok)).Inc()
}

// RoleChanged sets the role gauge.
func (p *Prometheus) RoleChanged(role domain.Role) {
	for _, r := range []domain.Role{domain.RolePrimary, domain.RoleBackup} {
		v := 0.0
		if r == role {
			v = 1
		}
		p.role.WithLabelValues(r.String()).Set(v)
	}
}

var _ ports.Metrics = (*Prometheus)(nil)

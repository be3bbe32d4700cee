// Package metrics exposes the failover state machine to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is shared by the health supervisor (which records transitions
// and probe outcomes) and the proxy server (which serves /metrics).
type Metrics struct {
	Registry    *prometheus.Registry
	Transitions *prometheus.CounterVec
	Probes      *prometheus.CounterVec
	OnBackup    prometheus.Gauge
}

// New registers the failover metric family on reg. Passing a fresh
// *prometheus.Registry (rather than the global DefaultRegisterer) keeps
// repeated construction in tests from panicking on duplicate
// registration.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "failover_transitions_total",
			Help: "Number of failover/recovery transitions, labeled by kind.",
		}, []string{"kind"}),
		Probes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "failover_probe_total",
			Help: "Number of primary health probes, labeled by result.",
		}, []string{"result"}),
		OnBackup: factory.NewGauge(prometheus.GaugeOpts{
			Name: "failover_on_backup",
			Help: "1 if traffic is currently routed to the backup upstream, 0 otherwise.",
		}),
	}
}

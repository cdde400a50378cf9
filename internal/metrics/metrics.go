// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "moneyd"

type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	writes   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry. accounts and queueDepth
// are sampled on every scrape.
func New(accounts, queueDepth func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Money commands handled, by resolved verb and outcome.",
			},
			[]string{"verb", "outcome"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "persistence",
				Name:      "writes_total",
				Help:      "Account writes issued to the storage backend.",
			},
			[]string{"backend", "result"},
		),
	}

	m.registry.MustRegister(
		m.commands,
		m.writes,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accounts",
				Help:      "Accounts held in memory.",
			},
			func() float64 { return float64(accounts()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "persistence",
				Name:      "queue_depth",
				Help:      "Account snapshots waiting to be written.",
			},
			func() float64 { return float64(queueDepth()) },
		),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCommand counts a handled command. outcome is "ok", "help" or the
// rejection kind.
func (m *Metrics) ObserveCommand(verb, outcome string) {
	m.commands.WithLabelValues(verb, outcome).Inc()
}

// ObservePersistence counts one storage write. It matches the observer
// signature of the ledger writer.
func (m *Metrics) ObservePersistence(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.writes.WithLabelValues(backend, result).Inc()
}

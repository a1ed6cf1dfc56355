package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the ledger counters on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	handler   http.Handler
	mutations *prometheus.CounterVec
	units     *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockledger_mutations_total",
		Help: "Ledger mutations by transaction type and outcome (ok or error kind).",
	}, []string{"type", "outcome"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockledger_units_moved_total",
		Help: "Absolute stock units moved by committed mutations.",
	}, []string{"type"})
	registry.MustRegister(mutations, units)
	return &Metrics{
		registry:  registry,
		handler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		mutations: mutations,
		units:     units,
	}
}

// ObserveMutation counts one attempt. A nil receiver is a no-op.
func (m *Metrics) ObserveMutation(typ, outcome string, change int) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(typ, outcome).Inc()
	if outcome == "ok" {
		if change < 0 {
			change = -change
		}
		m.units.WithLabelValues(typ).Add(float64(change))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Package metrics holds the Prometheus collectors of the filter service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Applies        *prometheus.CounterVec
	Translations   *prometheus.CounterVec
	UnknownFields  *prometheus.CounterVec
	LookupFailures *prometheus.CounterVec
	OpenSessions   prometheus.Gauge
}

// New registers the collectors with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Applies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetfilter_applies_total",
			Help: "Filter objects submitted to the fetch collaborator, by domain and reason",
		}, []string{"domain", "reason"}),
		Translations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetfilter_translations_total",
			Help: "Criteria lists translated into domain filters",
		}, []string{"domain"}),
		UnknownFields: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetfilter_unknown_fields_total",
			Help: "Criteria fields with no mapping in their domain",
		}, []string{"domain", "field"}),
		LookupFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetfilter_lookup_failures_total",
			Help: "Failed option lookups, by entity kind",
		}, []string{"kind"}),
		OpenSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "fleetfilter_sidebar_sessions",
			Help: "Open websocket sidebar sessions",
		}),
	}
}

func (m *Metrics) IncrementApplies(domain, reason string) {
	m.Applies.WithLabelValues(domain, reason).Inc()
}

func (m *Metrics) IncrementTranslations(domain string) {
	m.Translations.WithLabelValues(domain).Inc()
}

func (m *Metrics) IncrementUnknownFields(domain, field string) {
	m.UnknownFields.WithLabelValues(domain, field).Inc()
}

func (m *Metrics) IncrementLookupFailures(kind string) {
	m.LookupFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetOpenSessions(count int) {
	m.OpenSessions.Set(float64(count))
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the Prometheus collectors of the service.
// All recording methods are safe on a nil receiver so callers in tests can skip wiring.
type Metrics struct {
	// Registry owns the collectors below and backs the /metrics endpoint.
	Registry *prometheus.Registry

	ingestOutcomes  *prometheus.CounterVec
	ingestDuration  *prometheus.HistogramVec
	placeholders    *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	unparsedLogged  prometheus.Counter
	unparsedPending prometheus.Gauge
}

// NewMetrics registers all collectors in a private registry, so it can be called more than once.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		ingestOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paisa_ingest_outcomes_total",
				Help: "Raw messages processed, by pipeline outcome.",
			},
			[]string{"outcome"},
		),
		ingestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paisa_ingest_duration_seconds",
				Help:    "Time spent ingesting one raw message.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		placeholders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paisa_placeholder_accounts_total",
				Help: "Placeholder accounts created for unseen bank/last4 pairs.",
			},
			[]string{"bank"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paisa_notifications_total",
				Help: "Chat notifications by delivery result.",
			},
			[]string{"result"},
		),
		unparsedLogged: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "paisa_unparsed_messages_total",
				Help: "Finance-looking messages no parser recognized.",
			},
		),
		unparsedPending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "paisa_unparsed_messages_recent",
				Help: "Unparsed messages currently kept in the retention window.",
			},
		),
	}
}

func (m *Metrics) RecordIngest(outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.ingestOutcomes.WithLabelValues(outcome).Inc()
	m.ingestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) IncrPlaceholderAccount(bank string) {
	if m == nil {
		return
	}

	m.placeholders.WithLabelValues(bank).Inc()
}

func (m *Metrics) IncrNotification(result string) {
	if m == nil {
		return
	}

	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrUnparsed() {
	if m == nil {
		return
	}

	m.unparsedLogged.Inc()
}

func (m *Metrics) SetUnparsedRecent(n int) {
	if m == nil {
		return
	}

	m.unparsedPending.Set(float64(n))
}

// Stats is a JSON-friendly snapshot of the counters.
type Stats struct {
	Ingest         map[string]float64 `json:"ingest"`
	Notifications  map[string]float64 `json:"notifications"`
	UnparsedTotal  float64            `json:"unparsed_total"`
	UnparsedRecent float64            `json:"unparsed_recent"`
}

var (
	ingestOutcomeLabels = []string{
		"created", "duplicate", "no_match", "credit_rejected", "unclassified", "unstable_hash", "error",
	}
	notificationLabels = []string{"sent", "failed", "dropped"}
)

func (m *Metrics) Snapshot() Stats {
	s := Stats{
		Ingest:        make(map[string]float64, len(ingestOutcomeLabels)),
		Notifications: make(map[string]float64, len(notificationLabels)),
	}

	if m == nil {
		return s
	}

	for _, l := range ingestOutcomeLabels {
		s.Ingest[l] = getCounterValue(m.ingestOutcomes, l)
	}

	for _, l := range notificationLabels {
		s.Notifications[l] = getCounterValue(m.notifications, l)
	}

	s.UnparsedTotal = metricValue(m.unparsedLogged)
	s.UnparsedRecent = metricValue(m.unparsedPending)

	return s
}

// getCounterValue extracts the current value of a CounterVec for one label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return metricValue(cv.WithLabelValues(label))
}

func metricValue(c prometheus.Metric) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}

	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	}

	return 0
}

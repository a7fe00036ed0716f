// Package metrics holds the prometheus collectors of the terminal.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	upstreamDuration *prometheus.HistogramVec
	salesSubmitted   *prometheus.CounterVec
	salesBlocked     *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to the sales backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		salesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sales_submitted_total",
			Help:      "Sales committed to the backend.",
		}, []string{"payment_method"}),
		salesBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sales_blocked_total",
			Help:      "Sale submissions refused before or during commit.",
		}, []string{"reason"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos",
			Name:      "document_render_duration_seconds",
			Help:      "Time spent laying out and rendering receipts and reports.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"kind", "format"}),
	}
	reg.MustRegister(m.upstreamDuration, m.salesSubmitted, m.salesBlocked, m.renderDuration)
	return m
}

func (m *Metrics) ObserveUpstream(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(method, route, statusLabel(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) SaleSubmitted(paymentMethod string) {
	if m == nil {
		return
	}
	m.salesSubmitted.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) SaleBlocked(reason string) {
	if m == nil {
		return
	}
	m.salesBlocked.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRender(kind, format string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(kind, format).Observe(elapsed.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

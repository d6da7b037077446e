// Package metrics expone contadores Prometheus de HTTP y de facturación.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
)

const namespace = "invoicing"

// Metrics colectores de la aplicación sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	InvoiceEventsTotal  *prometheus.CounterVec
}

var _ billing.InvoiceMetrics = (*Metrics)(nil)

// New registra los colectores (incluidos los de Go y del proceso) en un registro nuevo.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		InvoiceEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_events_total",
			Help:      "Operaciones sobre facturas (created, updated, sent, paid, voided, duplicated, deleted).",
		}, []string{"action"}),
	}
}

// InvoiceEvent cuenta una operación de facturación.
func (m *Metrics) InvoiceEvent(action string) {
	m.InvoiceEventsTotal.WithLabelValues(action).Inc()
}

// ObserveHTTP registra una petición. path debe ser la plantilla de la ruta, no la URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler handler de /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

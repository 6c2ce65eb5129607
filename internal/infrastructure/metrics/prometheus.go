// Package metrics expone métricas Prometheus del motor de precios y de la API HTTP.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// Metrics implementa pricing.Metrics y el middleware HTTP sobre un registry propio.
type Metrics struct {
	breakdownsTotal     *prometheus.CounterVec
	breakdownAmount     *prometheus.HistogramVec
	contactUsBreakdowns prometheus.Counter
	ignoredOperations   *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		breakdownsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cotizador_breakdowns_total",
				Help: "Desgloses de precio calculados",
			},
			[]string{"cycle", "currency"},
		),
		breakdownAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cotizador_breakdown_total_amount",
				Help:    "Total redondeado de cada desglose",
				Buckets: prometheus.ExponentialBuckets(10, 4, 8),
			},
			[]string{"currency"},
		),
		contactUsBreakdowns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cotizador_contact_us_breakdowns_total",
				Help: "Desgloses con al menos un módulo por encima de su umbral",
			},
		),
		ignoredOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cotizador_ignored_operations_total",
				Help: "Operaciones de selección que no cambiaron el estado",
			},
			[]string{"operation"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cotizador_http_requests_total",
				Help: "Peticiones HTTP",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cotizador_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// ObserveBreakdown registra un desglose calculado.
func (m *Metrics) ObserveBreakdown(b entity.PriceBreakdown) {
	m.breakdownsTotal.WithLabelValues(string(b.Cycle), string(b.Currency)).Inc()
	total, _ := b.Total.Float64()
	m.breakdownAmount.WithLabelValues(string(b.Currency)).Observe(total)
	if b.HasContactUsModule() {
		m.contactUsBreakdowns.Inc()
	}
}

// IgnoredOperation cuenta una operación no-op.
func (m *Metrics) IgnoredOperation(operation string) {
	m.ignoredOperations.WithLabelValues(operation).Inc()
}

// Middleware mide cada petición usando la ruta registrada como etiqueta (no la URL cruda).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		// c.Method() apunta al buffer de la petición; las etiquetas se guardan
		method := strings.Clone(c.Method())
		m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}

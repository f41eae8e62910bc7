package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logicielhub_http_requests_total",
		Help: "Total de peticiones HTTP",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logicielhub_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	sessionSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "logicielhub_session_subscribers",
		Help: "Suscripciones activas al estado de sesión",
	})

	expiryNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logicielhub_expiry_notifications_total",
		Help: "Avisos de vencimiento de contrato emitidos por la tarea programada",
	}, []string{"result"})

	degradedViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logicielhub_degraded_views_total",
		Help: "Vistas servidas vacías por error al leer datos",
	}, []string{"view"})
)

// ObserveHTTPRequest registra una petición HTTP servida.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SessionSubscribed / SessionUnsubscribed mantienen el gauge de suscriptores.
func SessionSubscribed()   { sessionSubscribers.Inc() }
func SessionUnsubscribed() { sessionSubscribers.Dec() }

// ObserveExpiryNotification suma n avisos con result: sent, skipped, failed.
func ObserveExpiryNotification(result string, n int) {
	if n <= 0 {
		return
	}
	expiryNotifications.WithLabelValues(result).Add(float64(n))
}

// ObserveDegradedView cuenta una vista degradada (dashboard, catalog, analytics...).
func ObserveDegradedView(view string) {
	degradedViews.WithLabelValues(view).Inc()
}

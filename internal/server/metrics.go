package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request-level metrics. Calculation metrics live in the fibonacci package.
var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fibbench_active_requests",
		Help: "Current number of in-flight HTTP requests.",
	})
	totalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fibbench_requests_total",
		Help: "HTTP requests by path and status code.",
	}, []string{"path", "code"})
)

// Metrics exposes the Prometheus registry over HTTP.
type Metrics struct {
	handler http.Handler
}

// NewMetrics returns a Metrics serving the default registry.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// WritePrometheus writes the metrics in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// metricsMiddleware tracks in-flight requests and counts responses.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeRequests.Inc()
		defer activeRequests.Dec()

		rec := recorderFor(w)
		next(rec, r)
		totalRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	}
}

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fyrsmithlabs/mindmetrics/internal/insight"
)

// Metrics instruments the HTTP API and the analysis runs behind it. Each
// Metrics owns its registry, so multiple servers (tests included) never
// collide on collector registration.
type Metrics struct {
	registry      *prometheus.Registry
	requestsTotal *prometheus.CounterVec
	requestDur    *prometheus.HistogramVec
	analysisRuns  *prometheus.CounterVec
	insightsTotal prometheus.Counter
}

// NewMetrics builds the mindmetrics collectors with go runtime and process
// collectors included.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmetrics_http_requests_total",
			Help: "HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		requestDur: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindmetrics_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		analysisRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmetrics_analysis_runs_total",
			Help: "Analysis runs by report status.",
		}, []string{"status"}),
		insightsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mindmetrics_insights_generated_total",
			Help: "Insights generated across all analysis runs.",
		}),
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDur.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveAnalysis records one analysis run.
func (m *Metrics) ObserveAnalysis(r *insight.Report) {
	m.analysisRuns.WithLabelValues(string(r.Status)).Inc()
	m.insightsTotal.Add(float64(len(r.Insights)))
}

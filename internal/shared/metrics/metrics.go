package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartnotes_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartnotes_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	aiCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartnotes_ai_calls_total",
			Help: "Outbound model calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	aiCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartnotes_ai_call_duration_seconds",
			Help:    "Outbound model call latency by operation.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)
	quizRecoveryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartnotes_quiz_recovery_total",
			Help: "Quiz responses by the recovery tier that produced structured output (none = raw text).",
		},
		[]string{"tier"},
	)
	pdfIngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartnotes_pdf_ingest_total",
			Help: "PDF uploads by outcome.",
		},
		[]string{"outcome"},
	)
)

// ObserveAICall records one outbound model call.
func ObserveAICall(operation, outcome string, elapsed time.Duration) {
	aiCallsTotal.WithLabelValues(operation, outcome).Inc()
	aiCallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncQuizRecovery counts which recovery tier handled a quiz response.
func IncQuizRecovery(tier string) {
	quizRecoveryTotal.WithLabelValues(tier).Inc()
}

// IncPDFIngest counts a PDF upload outcome.
func IncPDFIngest(outcome string) {
	pdfIngestTotal.WithLabelValues(outcome).Inc()
}

// HTTP records request counts and latency keyed by the matched route template.
func HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

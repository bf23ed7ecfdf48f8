// Package metrics exposes Prometheus counters for generations and HTTP
// traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/internal/store/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scribe"

type Metrics struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	fallbacks          *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	tokens             *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New builds a private registry so tests and multiple servers never
// collide on the global one.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Generations served, by operation and the provider that produced the content.",
		}, []string{"operation", "provider"}),

		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "fallbacks_total",
			Help:      "Generations answered with mock content after a backend failure.",
		}, []string{"configured_provider", "reason"}),

		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Time spent producing content, fallback included.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider"}),

		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Tokens reported by backends.",
		}, []string{"provider", "model", "type"}), // type: prompt/completion

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.generations,
		m.fallbacks,
		m.generationDuration,
		m.tokens,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Log records one generation. It satisfies writer.Recorder.
func (m *Metrics) Log(log *model.GenerationLog) {
	m.generations.WithLabelValues(log.Operation, log.Provider).Inc()
	m.generationDuration.WithLabelValues(log.Provider).Observe(float64(log.LatencyMS) / 1000)

	if log.FallbackReason != "" {
		m.fallbacks.WithLabelValues(log.ConfiguredProvider, log.FallbackReason).Inc()
	}
	if log.PromptTokens > 0 {
		m.tokens.WithLabelValues(log.Provider, log.Model, "prompt").Add(float64(log.PromptTokens))
	}
	if log.CompletionTokens > 0 {
		m.tokens.WithLabelValues(log.Provider, log.Model, "completion").Add(float64(log.CompletionTokens))
	}
}

// Middleware counts requests by route template, never the raw path.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

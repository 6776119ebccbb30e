package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sumerplus/internal/model"
)

// Metrics 服务指标（独立 registry，测试中可多次创建）
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	documents  *prometheus.CounterVec
	trucks     prometheus.Counter
	generation *prometheus.CounterVec
}

// NewMetrics 创建并注册指标
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sumerplus",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sumerplus",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		documents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sumerplus",
			Name:      "statements_generated_total",
			Help:      "Rendered statement documents by audience.",
		}, []string{"audience"}),
		trucks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sumerplus",
			Name:      "trucks_settled_total",
			Help:      "Truck groups settled across all batches.",
		}),
		generation: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sumerplus",
			Name:      "generation_batches_total",
			Help:      "Generation batches by flow and outcome.",
		}, []string{"flow", "status"}),
	}
}

// Middleware 记录请求数与耗时
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveBatch 记录一个批次的结果
func (m *Metrics) ObserveBatch(flow, status string, trucks int, files []model.Document) {
	m.generation.WithLabelValues(flow, status).Inc()
	m.trucks.Add(float64(trucks))
	for _, f := range files {
		m.documents.WithLabelValues(string(f.Audience)).Inc()
	}
}

// Handler /metrics 处理器
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

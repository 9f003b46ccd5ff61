package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litechat_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "litechat_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "litechat_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litechat_ws_events_total",
			Help: "Total number of websocket lifecycle events.",
		},
		[]string{"event"},
	)
	deliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litechat_deliveries_total",
			Help: "Total number of completed delivery fan-outs by target kind.",
		},
		[]string{"target"},
	)
	deliveryErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "litechat_delivery_errors_total",
			Help: "Total number of per-connection send failures during fan-out.",
		},
	)
	routingSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "litechat_routing_skipped_total",
			Help: "Total number of events whose routing was skipped due to a malformed chat key.",
		},
	)
	expirySweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litechat_expiry_sweeps_total",
			Help: "Total number of completed expiry sweeps by task.",
		},
		[]string{"task"},
	)
	expiredEntitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litechat_expired_entities_total",
			Help: "Total number of entities retired by the expiry scheduler.",
		},
		[]string{"task"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "litechat_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		deliveriesTotal,
		deliveryErrorsTotal,
		routingSkippedTotal,
		expirySweepsTotal,
		expiredEntitiesTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncDelivery(target string) {
	deliveriesTotal.WithLabelValues(target).Inc()
}

func IncDeliveryError() {
	deliveryErrorsTotal.Inc()
}

func IncRoutingSkipped() {
	routingSkippedTotal.Inc()
}

func IncExpirySweep(task string) {
	expirySweepsTotal.WithLabelValues(task).Inc()
}

func AddExpiredEntities(task string, n int) {
	expiredEntitiesTotal.WithLabelValues(task).Add(float64(n))
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

// Package metrics registers the service's prometheus collectors on the default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketera_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketera_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	seatOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketera_seat_operations_total",
			Help: "Seat select/deselect/occupy operations",
		},
		[]string{"operation", "result"},
	)

	paymentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketera_payment_transitions_total",
			Help: "Payment session state transitions",
		},
		[]string{"method", "state"},
	)

	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketera_bookings_created_total",
			Help: "Bookings created by type",
		},
		[]string{"type"},
	)

	notificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketera_notifications_dispatched_total",
			Help: "Notification deliveries by channel and outcome",
		},
		[]string{"channel", "result"},
	)

	kafkaMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketera_kafka_messages_total",
			Help: "Kafka messages produced and consumed",
		},
		[]string{"topic", "direction", "result"},
	)

	paymentStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketera_payment_streams_active",
			Help: "Open payment status event streams",
		},
	)
)

// Middleware records request count and latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func SeatOperation(operation string, err error) {
	seatOperations.WithLabelValues(operation, result(err)).Inc()
}

func PaymentTransition(method, state string) {
	paymentTransitions.WithLabelValues(method, state).Inc()
}

func BookingCreated(bookingType string) {
	bookingsCreated.WithLabelValues(bookingType).Inc()
}

func NotificationDispatched(channel string, err error) {
	notificationsDispatched.WithLabelValues(channel, result(err)).Inc()
}

func KafkaProduced(topic string, err error) {
	kafkaMessages.WithLabelValues(topic, "produce", result(err)).Inc()
}

func KafkaConsumed(topic string, err error) {
	kafkaMessages.WithLabelValues(topic, "consume", result(err)).Inc()
}

func PaymentStreamOpened() {
	paymentStreams.Inc()
}

func PaymentStreamClosed() {
	paymentStreams.Dec()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

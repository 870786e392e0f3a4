// Package metrics exposes Prometheus counters for HTTP traffic and account events.
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
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "account_registrations_total",
		Help: "Total number of successful registrations",
	})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	mailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mail_send_failures_total",
		Help: "Notification emails that could not be delivered",
	})
)

// Middleware records request count and latency per route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRegistration() { registrationsTotal.Inc() }

func RecordLogin(success bool) {
	if success {
		loginsTotal.WithLabelValues("success").Inc()
		return
	}
	loginsTotal.WithLabelValues("failure").Inc()
}

func RecordMailFailure() { mailFailuresTotal.Inc() }

package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizeit_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "organizeit_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	notificationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizeit_notifications_created_total",
			Help: "Total number of in-app notifications created.",
		},
		[]string{"kind"},
	)
	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizeit_emails_total",
			Help: "Total number of outbound emails by result.",
		},
		[]string{"result"},
	)
	invitationsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizeit_invitations_total",
			Help: "Total number of invitations processed by outcome.",
		},
		[]string{"method", "outcome"},
	)
	jobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizeit_job_runs_total",
			Help: "Total number of periodic job runs.",
		},
		[]string{"job", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		notificationsCreatedTotal,
		emailsTotal,
		invitationsSentTotal,
		jobRunsTotal,
	)
}

// Middleware her isteği route şablonu ile sayar.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler /metrics için promhttp'yi Fiber'a bağlar.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func IncNotification(kind string) {
	notificationsCreatedTotal.WithLabelValues(kind).Inc()
}

func IncEmail(result string) {
	emailsTotal.WithLabelValues(result).Inc()
}

func IncInvitation(method, outcome string) {
	invitationsSentTotal.WithLabelValues(method, outcome).Inc()
}

func IncJobRun(job, result string) {
	jobRunsTotal.WithLabelValues(job, result).Inc()
}

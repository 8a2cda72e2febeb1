package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	StatusCodeCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category"},
	)

	// Domain counters.
	BookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restaurant_bookings_created_total",
		Help: "Bookings created",
	})
	BookingsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurant_bookings_rejected_total",
		Help: "Booking attempts rejected",
	}, []string{"reason"})
	TablesAssigned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restaurant_tables_assigned_total",
		Help: "Tables bound to bookings",
	})
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restaurant_orders_placed_total",
		Help: "Orders placed",
	})
	ReceiptsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restaurant_receipts_generated_total",
		Help: "Receipts rendered for sent orders",
	})
)

var registerOnce sync.Once

// Register adds every collector to the default registry; repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			StatusCodeCategoryCounter,
			BookingsCreated,
			BookingsRejected,
			TablesAssigned,
			OrdersPlaced,
			ReceiptsGenerated,
		)
	})
}

type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	Register()
	return &HTTPMetrics{ServiceName: serviceName}
}

func category(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return ""
}

func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			RequestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			if cat := category(status); cat != "" {
				StatusCodeCategoryCounter.WithLabelValues(m.ServiceName, cat).Inc()
			}
			RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, statusStr).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

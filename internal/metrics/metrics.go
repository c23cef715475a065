// Package metrics exposes Prometheus counters for the booking and auth flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report into.
// A nil *Collector is a valid no-op Recorder.
type Recorder interface {
	BookingCreated()
	BookingRejected(reason string)
	BookingStatusUpdated(status string)
	TokenIssued()
	TokenRejected(kind string)
	HTTPRequest(method string, status int, duration time.Duration)
}

// Collector is the Prometheus implementation of Recorder
type Collector struct {
	bookingsCreated  prometheus.Counter
	bookingsRejected *prometheus.CounterVec
	statusUpdates    *prometheus.CounterVec
	tokensIssued     prometheus.Counter
	tokensRejected   *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     prometheus.Histogram
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tourzen_bookings_created_total",
			Help: "Bookings persisted",
		}),
		bookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourzen_bookings_rejected_total",
			Help: "Booking attempts rejected, by reason",
		}, []string{"reason"}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourzen_booking_status_updates_total",
			Help: "Booking status changes, by new status",
		}, []string{"status"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tourzen_tokens_issued_total",
			Help: "Local access tokens issued",
		}),
		tokensRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourzen_tokens_rejected_total",
			Help: "Local access tokens that failed verification, by kind",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourzen_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "status"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tourzen_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.bookingsCreated,
		c.bookingsRejected,
		c.statusUpdates,
		c.tokensIssued,
		c.tokensRejected,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

func (c *Collector) BookingCreated() {
	if c == nil {
		return
	}
	c.bookingsCreated.Inc()
}

// BookingRejected records a refused create; reason is one of validation, not_found, conflict, store
func (c *Collector) BookingRejected(reason string) {
	if c == nil {
		return
	}
	c.bookingsRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) BookingStatusUpdated(status string) {
	if c == nil {
		return
	}
	c.statusUpdates.WithLabelValues(status).Inc()
}

func (c *Collector) TokenIssued() {
	if c == nil {
		return
	}
	c.tokensIssued.Inc()
}

func (c *Collector) TokenRejected(kind string) {
	if c == nil {
		return
	}
	c.tokensRejected.WithLabelValues(kind).Inc()
}

func (c *Collector) HTTPRequest(method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Package monitoring exposes Prometheus metrics for the booking and
// catalog flows. Metrics are registered with promauto at init time and
// served from /metrics via promhttp.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total bookings successfully created",
		},
	)

	bookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Booking attempts rejected by the duplicate-booking rule",
		},
	)

	bookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Total bookings cancelled",
		},
	)

	catalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Requests to the movie metadata provider",
		},
		[]string{"operation", "status"},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"status"},
	)
)

func BookingCreated()   { bookingsCreated.Inc() }
func BookingConflict()  { bookingConflicts.Inc() }
func BookingCancelled() { bookingsCancelled.Inc() }

// CatalogRequest records one provider call; status is "ok", "error" or "fallback".
func CatalogRequest(operation, status string) {
	catalogRequests.WithLabelValues(operation, status).Inc()
}

// Login records one login attempt; status is "ok" or "rejected".
func Login(status string) { logins.WithLabelValues(status).Inc() }

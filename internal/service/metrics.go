package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// bookingTotal counts booking attempts by outcome (booked, conflict, invalid, error)
	bookingTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinebook_booking_total",
		Help: "Total booking attempts by outcome",
	}, []string{"outcome"})

	// bookingDuration tracks store latency of the atomic add
	bookingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cinebook_booking_duration_seconds",
		Help:    "Booking store operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	})

	// seedTotal counts booking keys pre-filled on first seat map read
	seedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinebook_seed_total",
		Help: "Booking keys pre-filled with synthetic bookings",
	})

	// publishErrors counts booking.confirmed events that could not be published
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinebook_event_publish_errors_total",
		Help: "booking.confirmed events that failed to publish",
	})
)

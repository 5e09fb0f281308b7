// Package metrics exposes Prometheus metrics for the HMS services. Everything is
// registered on the default registry via promauto and served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hms"

var (
	// HTTPRequestsTotal counts handled requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDurationSeconds tracks request latency by route.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// CredentialTransitionsTotal counts credential session state changes.
	// from/to: NO_CREDENTIALS | UNSAVED_CREDENTIALS | CONFIRMED_RESET
	CredentialTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credentials",
			Name:      "transitions_total",
			Help:      "Credential export session state transitions.",
		},
		[]string{"from", "to"},
	)

	// CredentialExportsTotal counts credential downloads by format (txt | pdf).
	CredentialExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credentials",
			Name:      "exports_total",
			Help:      "Credential file exports by format.",
		},
		[]string{"format"},
	)

	// CredentialSessionsActive is the number of live credential sessions.
	CredentialSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "credentials",
			Name:      "sessions_active",
			Help:      "Credential export sessions currently held in memory.",
		},
	)

	// ValidationFailuresTotal counts rejected input by field.
	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "failures_total",
			Help:      "Input validation failures by field.",
		},
		[]string{"field"},
	)

	// PatientsRegisteredTotal counts successful patient registrations.
	PatientsRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "patients",
			Name:      "registered_total",
			Help:      "Patients registered.",
		},
	)
)

// ObserveRequest records one handled HTTP request
func ObserveRequest(route, method string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordTransition records a credential session state change
func RecordTransition(from, to string) {
	CredentialTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordValidationFailures increments the failure counter once per field
func RecordValidationFailures(fields map[string][]string) {
	for field := range fields {
		ValidationFailuresTotal.WithLabelValues(field).Inc()
	}
}

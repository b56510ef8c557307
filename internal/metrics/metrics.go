// Package metrics provides Prometheus metrics for the hardware portal.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "hwportal"
)

// Outcome label values for checkout and checkin counters.
const (
	OutcomeGranted  = "granted"
	OutcomeDenied   = "denied"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks concurrent HTTP requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)
)

// Inventory metrics
var (
	// CheckoutsTotal counts checkout attempts by pool and outcome.
	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "checkouts_total",
			Help:      "Total checkout attempts by pool and outcome",
		},
		[]string{"pool", "outcome"},
	)

	// CheckinsTotal counts checkin attempts by pool and outcome.
	CheckinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "checkins_total",
			Help:      "Total checkin attempts by pool and outcome",
		},
		[]string{"pool", "outcome"},
	)

	// PoolAvailableUnits tracks free units per pool.
	PoolAvailableUnits = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "pool_available_units",
			Help:      "Units currently available per hardware pool",
		},
		[]string{"pool"},
	)
)

// Auth metrics
var (
	// AuthLoginAttempts counts login attempts by result.
	AuthLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total login attempts by result",
		},
		[]string{"result"},
	)

	// AuthSignupsTotal counts account signups.
	AuthSignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Total accounts created via signup",
		},
	)
)

// Project metrics
var (
	// ProjectsCreatedTotal counts project creations.
	ProjectsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "created_total",
			Help:      "Total projects created",
		},
	)

	// ProjectMembershipChanges counts join and leave operations.
	ProjectMembershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "membership_changes_total",
			Help:      "Total project join and leave operations",
		},
		[]string{"action"},
	)
)

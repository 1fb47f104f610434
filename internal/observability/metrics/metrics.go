package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envirosync_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "envirosync_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "envirosync_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envirosync_http_errors_total",
			Help: "Total number of HTTP error responses",
		},
		[]string{"status", "method"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envirosync_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "envirosync_sessions_created_total",
			Help: "Total number of sessions issued",
		},
	)

	SessionsRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "envirosync_sessions_revoked_total",
			Help: "Total number of sessions revoked by logout, password change or user deletion",
		},
	)

	SessionsSweepDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "envirosync_sessions_sweep_deleted_total",
			Help: "Total number of expired session rows reclaimed by the sweeper",
		},
	)

	GateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envirosync_gate_decisions_total",
			Help: "Total number of gate decisions by outcome",
		},
		[]string{"outcome"},
	)

	DBQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "envirosync_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envirosync_db_errors_total",
			Help: "Total number of failed database queries",
		},
		[]string{"query"},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginCodesIssued counts the one-time login codes generated per delivery channel (email|console).
	LoginCodesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studylog_login_codes_issued_total",
			Help: "Total number of one-time login codes issued",
		},
		[]string{"channel"},
	)

	// AuthAttempts records code verification attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studylog_auth_attempts_total",
			Help: "Total number of login code verification attempts",
		},
		[]string{"result"},
	)

	// ActiveSessions tracks active sessions (not expired/revoked).
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "studylog_active_sessions",
			Help: "Number of active sessions",
		},
	)

	// StudyRecordsCreated counts logged study sessions.
	StudyRecordsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studylog_records_created_total",
			Help: "Total number of study records created",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studylog_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

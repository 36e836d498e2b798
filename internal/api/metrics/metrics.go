// Package metrics defines and registers the custom Prometheus metrics of the
// secrets app. It is the single source of truth for metric names, labels and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "secrets"

// Result label values shared by the auth counters.
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultUserNotFound       = "user_not_found"
	ResultUserExists         = "user_exists"
	ResultHashError          = "hash_error"
	ResultProviderError      = "provider_error"
	ResultInvalidState       = "invalid_state"
	ResultStoreError         = "store_error"
	ResultInvalidForm        = "invalid_form"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts.
// Labels:
//   - strategy: "local" or the provider name (e.g. "google")
//   - result: one of the Result* constants
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by strategy and result.",
	},
	[]string{"strategy", "result"},
)

// RegistrationsTotal counts local registration attempts by result.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of local registration attempts, by result.",
	},
	[]string{"result"},
)

// SessionOperationsTotal counts session manager calls.
// Labels:
//   - operation: "begin" or "end"
//   - result: "success" or "store_error"
var SessionOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_operations_total",
		Help:      "Total number of session begin/end operations, by result.",
	},
	[]string{"operation", "result"},
)

// ── Secret metrics ────────────────────────────────────────────────────────────

// SecretsSubmittedTotal counts successful secret submissions.
var SecretsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "secrets_submitted_total",
		Help:      "Total number of secrets written by users.",
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request handling time.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/auth/google/secrets")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

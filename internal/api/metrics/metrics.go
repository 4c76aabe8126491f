// Package metrics defines and registers the custom Prometheus metrics of the
// Coffeetica API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coffeetica"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationFailuresTotal counts bearer tokens rejected by the identity
// interceptor.
// Label:
//   - reason: "malformed", "bad_signature", "expired" or "unknown_account"
var TokenValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validation_failures_total",
		Help:      "Total number of presented bearer tokens that did not yield an identity.",
	},
	[]string{"reason"},
)

// AccountsRegisteredTotal counts accounts created through self-registration.
var AccountsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts created through registration.",
	},
)

// ── Authorization ────────────────────────────────────────────────────────────

// AuthzDecisionsTotal counts policy decisions.
// Labels:
//   - rule: the rule kind (e.g. "require_role_or_owner")
//   - outcome: "allow" or "deny"
//   - reason: deny reason, empty on allow
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by rule kind, outcome and reason.",
	},
	[]string{"rule", "outcome", "reason"},
)

// AuthzDecisionDuration measures how long a decision takes, including any
// ownership or target account lookups.
var AuthzDecisionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "authz_decision_duration_seconds",
		Help:      "Duration of authorization decisions.",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"rule"},
)

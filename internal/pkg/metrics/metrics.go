// Package metrics defines and registers all custom Prometheus metrics for the
// account portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto; /metrics exposes them alongside the HTTP
// request metrics collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Account Service metrics ───────────────────────────────────────────────────

// AccountCallsTotal counts calls made to the Account Service.
// Labels:
//   - operation: login, register, logout, get_profile, update_profile, list_users, update_role
//   - outcome: "ok", "rejected" (non-2xx answer), "unavailable" (transport), "malformed"
var AccountCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_calls_total",
		Help:      "Total number of Account Service calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// AccountCallDuration measures Account Service round trips.
// Label:
//   - operation: as for AccountCallsTotal
var AccountCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "account_call_duration_seconds",
		Help:      "Duration of Account Service calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionResolutionsTotal counts startup resolutions of browser sessions.
// Label:
//   - result: "authenticated" or "anonymous"
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of browser sessions resolved, by resulting state.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard decisions.
// Labels:
//   - view: the requested view (e.g. "dashboard")
//   - outcome: "render", "redirect" or "wait"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by view and outcome.",
	},
	[]string{"view", "outcome"},
)

// SubmissionsRefusedTotal counts submissions refused because an earlier one
// from the same form was still in flight.
// Label:
//   - form: login, register, profile, role
var SubmissionsRefusedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_refused_total",
		Help:      "Total number of duplicate submissions refused while one was in flight.",
	},
	[]string{"form"},
)

// ── Role administration metrics ───────────────────────────────────────────────

// RoleChangesTotal counts role reassignments.
// Labels:
//   - role: the requested role
//   - result: "ok" or "failed"
var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Total number of role changes attempted, by requested role and result.",
	},
	[]string{"role", "result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit events dropped because their worker queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped because the queue was full.",
	},
)

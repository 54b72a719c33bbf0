// Package metrics defines and registers the custom Prometheus metrics of the
// issue tracker. HTTP request metrics come from the echoprometheus middleware;
// the counters here describe what happened to issues.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// IssuesCreatedTotal counts newly created issues. Idempotent replays are not counted.
// Label:
//   - type: BUG, TASK, FEATURE or IMPROVEMENT
var IssuesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_created_total",
		Help:      "Total number of issues created, by issue type.",
	},
	[]string{"type"},
)

// StatusTransitionsTotal counts successful lifecycle transitions.
// Label:
//   - to: the status the issue moved into
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of issue status changes, by target status.",
	},
	[]string{"to"},
)

// AccessDeniedTotal counts commands refused by the authorization rules.
var AccessDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of commands rejected by issue or comment policy.",
	},
)

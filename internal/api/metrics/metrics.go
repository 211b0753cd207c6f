// Package metrics defines and registers all custom Prometheus metrics for the
// HuntSmart client engine. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry on
// package initialisation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "huntsmart"

// ── Store and bus metrics ─────────────────────────────────────────────────────

// StoreWritesTotal counts persisted store mutations.
// Labels:
//   - store: "session" or "entitlement"
//   - op: the mutation (e.g. "sign_up", "set_role", "set_active", "consume")
var StoreWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_writes_total",
		Help:      "Total number of persisted store mutations.",
	},
	[]string{"store", "op"},
)

// BusDeliveriesTotal counts handler invocations per topic.
var BusDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bus_deliveries_total",
		Help:      "Total number of change signals delivered to observers.",
	},
	[]string{"topic"},
)

// CrossTabChangesTotal counts storage changes received from other tabs.
var CrossTabChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cross_tab_changes_total",
		Help:      "Total number of storage changes relayed from other tabs.",
	},
	[]string{"key"},
)

// ObserversActive tracks observers currently subscribed.
// Label:
//   - kind: "session" or "entitlement"
var ObserversActive = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "observers_active",
		Help:      "Number of currently active observers.",
	},
	[]string{"kind"},
)

// ── Surface metrics ───────────────────────────────────────────────────────────

// VerificationsTotal counts settled verification attempts.
// Label:
//   - result: "valid" or "invalid"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of settled booking-code verifications.",
	},
	[]string{"result"},
)

// PassesGrantedTotal counts completed checkout workflows.
var PassesGrantedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "passes_granted_total",
		Help:      "Total number of HuntSmart passes granted by checkout.",
	},
)

// CheckoutsTotal counts finished checkout workflows.
// Label:
//   - outcome: "granted", "abandoned" or "grant_failed"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of finished checkout workflows, labelled by outcome.",
	},
	[]string{"outcome"},
)

// InspectionsConsumedTotal counts pass credits spent on premium inspections.
var InspectionsConsumedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inspections_consumed_total",
		Help:      "Total number of inspection credits spent.",
	},
)

// SurfacesSweptTotal counts idle surfaces torn down by the sweeper.
var SurfacesSweptTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "surfaces_swept_total",
		Help:      "Total number of idle surfaces torn down by the sweeper.",
	},
	[]string{"kind"},
)

// ProfilesOpen tracks profiles held in memory by this process.
var ProfilesOpen = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "profiles_open",
		Help:      "Number of profiles currently held by the registry.",
	},
)

// ── Claim metrics ─────────────────────────────────────────────────────────────

// ClaimsRecordedTotal counts claims written to the ledger.
var ClaimsRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claims_recorded_total",
		Help:      "Total number of verified claims recorded.",
	},
)

// ClaimsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (already claimed, skipped) or "miss" (new claim)
var ClaimsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claims_dedup_total",
		Help:      "Total number of claim deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ClaimQueueDepth tracks claims waiting in each dispatcher worker channel.
var ClaimQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "claim_queue_depth",
		Help:      "Current number of claims pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

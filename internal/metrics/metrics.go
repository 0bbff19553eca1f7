// Package metrics holds the Prometheus collectors of the settleup server.
// Collectors register with the default registry on package load and are
// served by promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Engine ────────────────────────────────────────────────────────────────

// Computations counts settlement computations by algorithm and outcome
// ("ok", "invalid", "error").
var Computations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "settleup",
	Subsystem: "engine",
	Name:      "computations_total",
	Help:      "Total settlement computations by algorithm and outcome.",
}, []string{"algorithm", "outcome"})

// SettlementCount tracks how many settlements each computation produced.
var SettlementCount = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "settleup",
	Subsystem: "engine",
	Name:      "settlements",
	Help:      "Number of settlements produced per computation.",
	Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 50, 100},
}, []string{"algorithm"})

// Reduction tracks the percentage of raw debts saved per computation.
var Reduction = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "settleup",
	Subsystem: "engine",
	Name:      "reduction_percent",
	Help:      "Percentage of original debts removed by settlement optimization.",
	Buckets:   []float64{0, 10, 25, 40, 50, 60, 75, 90, 100},
}, []string{"algorithm"})

// InvariantViolations counts strategy outputs that failed verification.
// Any non-zero value indicates a defect.
var InvariantViolations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "settleup",
	Subsystem: "engine",
	Name:      "invariant_violations_total",
	Help:      "Total strategy results rejected by settlement verification.",
}, []string{"algorithm"})

// ─── RPC ───────────────────────────────────────────────────────────────────

// RPCRequests counts RPCs by procedure and Connect code ("ok" on success).
var RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "settleup",
	Subsystem: "rpc",
	Name:      "requests_total",
	Help:      "Total RPC requests by procedure and result code.",
}, []string{"procedure", "code"})

// RPCLatency tracks RPC handling time in milliseconds.
var RPCLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "settleup",
	Subsystem: "rpc",
	Name:      "latency_ms",
	Help:      "RPC handling latency in milliseconds.",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
}, []string{"procedure"})

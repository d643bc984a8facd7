package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScoringDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleet_risk_scoring_duration_seconds",
			Help:    "Comprehensive risk score computation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	RecalculationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_risk_recalculation_total",
			Help: "Total number of risk score recalculations",
		},
		[]string{"trigger"},
	)

	ComplianceVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_risk_compliance_verdict_total",
			Help: "Compliance verdicts emitted by the risk engine",
		},
		[]string{"status"},
	)

	OverrideBlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleet_risk_override_block_total",
			Help: "Approvals blocked by unresolved high-impact critical failures",
		},
	)

	SnapshotConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleet_risk_snapshot_conflict_total",
			Help: "Score snapshot writes lost to a concurrent recalculation",
		},
	)
)

func Register() {
	prometheus.MustRegister(
		ScoringDuration,
		RecalculationTotal,
		ComplianceVerdicts,
		OverrideBlocks,
		SnapshotConflicts,
	)
}

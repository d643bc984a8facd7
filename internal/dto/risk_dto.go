package dto

import (
	"time"

	"github.com/lshigami/Kinkajou/internal/model"
)

// RiskImpact labels how much a single factor drives the verdict.
type RiskImpact string

const (
	ImpactLow      RiskImpact = "low"
	ImpactMedium   RiskImpact = "medium"
	ImpactHigh     RiskImpact = "high"
	ImpactCritical RiskImpact = "critical"
)

// RiskFactor is a reporting value object emitted fresh by every scoring run;
// it is never persisted on its own.
type RiskFactor struct {
	Category          string     `json:"category"`
	Weight            float64    `json:"weight"`
	Score             float64    `json:"score"`
	Impact            RiskImpact `json:"impact"`
	Description       string     `json:"description"`
	MitigatingActions []string   `json:"mitigating_actions,omitempty"`
}

// PhaseScore is the transient result for one temporal phase. It is recomputed
// on demand because the underlying signals (violations, incidents, alerts)
// can keep arriving after a first computation.
type PhaseScore struct {
	Score   float64      `json:"score"`
	Factors []RiskFactor `json:"factors"`
}

// RiskScoreBreakdown is the authoritative scoring result for one trip.
type RiskScoreBreakdown struct {
	TripID           uint                   `json:"trip_id"`
	PreTripScore     float64                `json:"pre_trip_score"`
	InTripScore      float64                `json:"in_trip_score"`
	PostTripScore    float64                `json:"post_trip_score"`
	TotalScore       float64                `json:"total_score"`
	RiskLevel        model.RiskLevel        `json:"risk_level"`
	ComplianceStatus model.ComplianceStatus `json:"compliance_status"`
	Factors          []RiskFactor           `json:"factors"`
	ComputedAt       time.Time              `json:"computed_at"`
}

// ModuleRiskScore is the per-module view returned alongside the composite.
type ModuleRiskScore struct {
	TripModuleID        uint            `json:"trip_module_id"`
	ModuleID            uint            `json:"module_id"`
	Name                string          `json:"name"`
	Phase               model.TripPhase `json:"phase"`
	Score               float64         `json:"score"`
	CompletionRate      float64         `json:"completion_rate"`
	CriticalItems       int             `json:"critical_items"`
	FailedCriticalItems int             `json:"failed_critical_items"`
}

// OverrideDecision is the Critical-Failure Override Resolver's output. It is
// computed independently of the numeric composite score.
type OverrideDecision struct {
	TripID                 uint                      `json:"trip_id"`
	TotalCriticalPoints    float64                   `json:"total_critical_points"`
	UnresolvedCount        int                       `json:"unresolved_count"`
	NeedsOverride          bool                      `json:"needs_override"`
	HasHighImpactFailure   bool                      `json:"has_high_impact_failure"`
	CanApprove             bool                      `json:"can_approve"`
	RequiresMechanicReview bool                      `json:"requires_mechanic_review"`
	Failures               []CriticalFailureResponse `json:"failures"`
}

// TrendDirection also carries the sentinel for windows too small to judge.
type TrendDirection string

const (
	TrendImproving        TrendDirection = "improving"
	TrendDeclining        TrendDirection = "declining"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// RiskTrend summarizes a driver's completed trips over a lookback window.
type RiskTrend struct {
	DriverID         uint                    `json:"driver_id"`
	WindowDays       int                     `json:"window_days"`
	TripCount        int                     `json:"trip_count"`
	AverageScore     float64                 `json:"average_score"`
	RiskDistribution map[model.RiskLevel]int `json:"risk_distribution"`
	ImprovementRate  float64                 `json:"improvement_rate"`
	Trend            TrendDirection          `json:"trend"`
}

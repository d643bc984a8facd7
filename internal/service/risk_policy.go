package service

import (
	"github.com/lshigami/Kinkajou/config"
	"github.com/lshigami/Kinkajou/internal/model"
)

// RiskPolicy holds every scoring constant in one place: phase weights, band
// cutoffs, per-module multipliers, per-category critical-item weights and the
// override thresholds. These numbers define the legal gate for dispatching a
// vehicle, so they are injected rather than inlined, and the weight/cutoff
// subset can be overridden from configuration.
type RiskPolicy struct {
	PreTripWeight  float64
	InTripWeight   float64
	PostTripWeight float64

	LowMaxScore    float64
	MediumMaxScore float64
	HighMaxScore   float64

	NonCompliantInTripScore  float64
	ConditionalPreTripScore  float64
	ConditionalPostTripScore float64

	// ModuleMultipliers scale a module's critical-item deductions by how much
	// real-world danger that subsystem carries. Keyed by ChecklistModule.ModuleKey.
	ModuleMultipliers       map[string]float64
	DefaultModuleMultiplier float64

	CriticalItemWeights       map[model.ItemCategory]float64
	DefaultCriticalItemWeight float64

	// Escalate the module's "Critical Failures" factor to critical impact once
	// more than this many critical items fail in the same module.
	CriticalEscalationCount int

	IncompleteModulePenalty float64
	LowCompletionCutoff     float64

	SpeedCriticalScore float64
	SpeedHighScore     float64

	FatigueScores       map[model.FatigueAlertLevel]float64
	LongShiftHours      float64
	LongShiftPenalty    float64
	ExtremeShiftHours   float64
	ExtremeShiftPenalty float64

	IncidentMultipliers       map[model.IncidentSeverity]float64
	DefaultIncidentMultiplier float64

	AlertMultipliers       map[model.AlertSeverity]float64
	DefaultAlertMultiplier float64

	MissingInspectionPenalty    float64
	IncompleteInspectionPenalty float64

	MaintenanceMultipliers       map[model.MaintenancePriority]float64
	DefaultMaintenanceMultiplier float64

	FuelAnomalyPenalty float64

	OverridePointThreshold   float64
	HighImpactPointThreshold float64
}

func DefaultRiskPolicy() *RiskPolicy {
	return &RiskPolicy{
		PreTripWeight:  0.4,
		InTripWeight:   0.4,
		PostTripWeight: 0.2,

		LowMaxScore:    10,
		MediumMaxScore: 25,
		HighMaxScore:   50,

		NonCompliantInTripScore:  30,
		ConditionalPreTripScore:  15,
		ConditionalPostTripScore: 10,

		ModuleMultipliers: map[string]float64{
			"driver_info":       0.8,
			"trip_details":      0.8,
			"documentation":     0.8,
			"visual_inspection": 1.5,
			"functional_checks": 2.0,
			"safety_equipment":  2.0,
		},
		DefaultModuleMultiplier: 1.0,

		CriticalItemWeights: map[model.ItemCategory]float64{
			model.CategoryMechanical: 1.5,
			model.CategoryVehicle:    1.5,
			model.CategoryDriver:     1.2,
		},
		DefaultCriticalItemWeight: 1.0,

		CriticalEscalationCount: 2,

		IncompleteModulePenalty: 20,
		LowCompletionCutoff:     0.8,

		SpeedCriticalScore: 10,
		SpeedHighScore:     5,

		FatigueScores: map[model.FatigueAlertLevel]float64{
			model.FatigueCritical: 15,
			model.FatigueWarning:  8,
			model.FatigueCaution:  4,
			model.FatigueNormal:   0,
		},
		LongShiftHours:      8,
		LongShiftPenalty:    5,
		ExtremeShiftHours:   12,
		ExtremeShiftPenalty: 10,

		IncidentMultipliers: map[model.IncidentSeverity]float64{
			model.IncidentCritical: 10,
			model.IncidentMajor:    5,
			model.IncidentMinor:    2,
		},
		DefaultIncidentMultiplier: 1,

		AlertMultipliers: map[model.AlertSeverity]float64{
			model.AlertEmergency: 5,
			model.AlertCritical:  3,
			model.AlertWarning:   1,
		},
		DefaultAlertMultiplier: 0.5,

		MissingInspectionPenalty:    15,
		IncompleteInspectionPenalty: 10,

		MaintenanceMultipliers: map[model.MaintenancePriority]float64{
			model.MaintenanceUrgent: 3,
			model.MaintenanceHigh:   2,
			model.MaintenanceMedium: 1,
		},
		DefaultMaintenanceMultiplier: 0.5,

		FuelAnomalyPenalty: 5,

		OverridePointThreshold:   5,
		HighImpactPointThreshold: 10,
	}
}

// NewRiskPolicy builds the default policy with any configuration overrides
// applied.
func NewRiskPolicy(cfg *config.Config) *RiskPolicy {
	policy := DefaultRiskPolicy()
	if cfg.Risk.PreTripWeight > 0 {
		policy.PreTripWeight = cfg.Risk.PreTripWeight
	}
	if cfg.Risk.InTripWeight > 0 {
		policy.InTripWeight = cfg.Risk.InTripWeight
	}
	if cfg.Risk.PostTripWeight > 0 {
		policy.PostTripWeight = cfg.Risk.PostTripWeight
	}
	if cfg.Risk.LowMaxScore > 0 {
		policy.LowMaxScore = cfg.Risk.LowMaxScore
	}
	if cfg.Risk.MediumMaxScore > 0 {
		policy.MediumMaxScore = cfg.Risk.MediumMaxScore
	}
	if cfg.Risk.HighMaxScore > 0 {
		policy.HighMaxScore = cfg.Risk.HighMaxScore
	}
	return policy
}

// ModuleMultiplier resolves the risk multiplier for a catalog module key.
func (p *RiskPolicy) ModuleMultiplier(moduleKey string) float64 {
	if m, ok := p.ModuleMultipliers[moduleKey]; ok {
		return m
	}
	return p.DefaultModuleMultiplier
}

// CriticalItemWeight resolves the elevated weight for a failed critical item.
func (p *RiskPolicy) CriticalItemWeight(category model.ItemCategory) float64 {
	if w, ok := p.CriticalItemWeights[category]; ok {
		return w
	}
	return p.DefaultCriticalItemWeight
}

func (p *RiskPolicy) IncidentMultiplier(severity model.IncidentSeverity) float64 {
	if m, ok := p.IncidentMultipliers[severity]; ok {
		return m
	}
	return p.DefaultIncidentMultiplier
}

func (p *RiskPolicy) AlertMultiplier(severity model.AlertSeverity) float64 {
	if m, ok := p.AlertMultipliers[severity]; ok {
		return m
	}
	return p.DefaultAlertMultiplier
}

func (p *RiskPolicy) MaintenanceMultiplier(priority model.MaintenancePriority) float64 {
	if m, ok := p.MaintenanceMultipliers[priority]; ok {
		return m
	}
	return p.DefaultMaintenanceMultiplier
}

// RiskLevelFor maps a composite score onto its discrete band. Boundaries are
// inclusive on the upper edge: a score equal to LowMaxScore is still low.
func (p *RiskPolicy) RiskLevelFor(totalScore float64) model.RiskLevel {
	switch {
	case totalScore <= p.LowMaxScore:
		return model.RiskLow
	case totalScore <= p.MediumMaxScore:
		return model.RiskMedium
	case totalScore <= p.HighMaxScore:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

// ComplianceFor derives the dispatch verdict from the risk level and the raw
// phase scores.
func (p *RiskPolicy) ComplianceFor(level model.RiskLevel, preTrip, inTrip, postTrip float64) model.ComplianceStatus {
	if level == model.RiskCritical || inTrip > p.NonCompliantInTripScore {
		return model.NonCompliant
	}
	if level == model.RiskHigh || preTrip > p.ConditionalPreTripScore || postTrip > p.ConditionalPostTripScore {
		return model.Conditional
	}
	return model.Compliant
}

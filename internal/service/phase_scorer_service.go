package service

import (
	"fmt"

	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
)

// InTripSignals bundles the four independent in-trip streams. A nil/empty
// stream contributes zero; it is never an error.
type InTripSignals struct {
	Violations []model.SpeedViolation
	Fatigue    *model.FatigueReading
	Incidents  []model.TripIncident
	Alerts     []model.RealTimeAlert
}

// PostTripSignals carries the post-trip inspection (nil when none was ever
// recorded, which is itself a risk signal) and the fuel record.
type PostTripSignals struct {
	Inspection *model.PostTripInspection
	Fuel       *model.FuelRecord
}

// PhaseScorerService holds the three pure reducers that fold raw signals into
// one PhaseScore each. The composite engine composes them; nothing here
// touches storage.
type PhaseScorerService interface {
	ScorePreTrip(modules []model.TripModule) dto.PhaseScore
	ScoreInTrip(signals InTripSignals) dto.PhaseScore
	ScorePostTrip(signals PostTripSignals) dto.PhaseScore
}

type phaseScorerService struct {
	moduleScorer ModuleScorerService
	policy       *RiskPolicy
}

func NewPhaseScorerService(moduleScorer ModuleScorerService, policy *RiskPolicy) PhaseScorerService {
	return &phaseScorerService{moduleScorer: moduleScorer, policy: policy}
}

// ScorePreTrip sums the module scores for pre-trip modules and penalizes
// incomplete checklists.
func (s *phaseScorerService) ScorePreTrip(modules []model.TripModule) dto.PhaseScore {
	phase := dto.PhaseScore{Factors: []dto.RiskFactor{}}

	totalModules := 0
	completedModules := 0
	for i := range modules {
		tm := &modules[i]
		if tm.Module.Phase != model.PhasePreTrip {
			continue
		}
		totalModules++
		if tm.Completed {
			completedModules++
		}
		scored := s.moduleScorer.ScoreModule(tm)
		phase.Score += scored.Score
		if scored.Factor != nil {
			phase.Factors = append(phase.Factors, *scored.Factor)
		}
	}

	// No pre-trip modules on the trip means nothing to complete; the factor
	// only applies when a checklist exists and was left unfinished.
	if totalModules == 0 {
		return phase
	}

	completionRate := float64(completedModules) / float64(totalModules)
	if completionRate < 1.0 {
		impact := dto.ImpactMedium
		if completionRate < s.policy.LowCompletionCutoff {
			impact = dto.ImpactHigh
		}
		score := (1.0 - completionRate) * s.policy.IncompleteModulePenalty
		phase.Score += score
		phase.Factors = append(phase.Factors, dto.RiskFactor{
			Category: "Pre-trip Completion",
			Weight:   1,
			Score:    score,
			Impact:   impact,
			Description: fmt.Sprintf("%d of %d pre-trip modules completed",
				completedModules, totalModules),
			MitigatingActions: []string{"Complete the remaining pre-trip modules"},
		})
	}
	return phase
}

// ScoreInTrip folds the four streams independently; each emits its own factor.
func (s *phaseScorerService) ScoreInTrip(signals InTripSignals) dto.PhaseScore {
	phase := dto.PhaseScore{Factors: []dto.RiskFactor{}}

	if len(signals.Violations) > 0 {
		score := 0.0
		for _, v := range signals.Violations {
			score += v.PointsDeducted
		}
		impact := dto.ImpactMedium
		switch {
		case score > s.policy.SpeedCriticalScore:
			impact = dto.ImpactCritical
		case score > s.policy.SpeedHighScore:
			impact = dto.ImpactHigh
		}
		phase.Score += score
		phase.Factors = append(phase.Factors, dto.RiskFactor{
			Category:          "Speed Violations",
			Weight:            1,
			Score:             score,
			Impact:            impact,
			Description:       fmt.Sprintf("%d speed violation(s) recorded", len(signals.Violations)),
			MitigatingActions: []string{"Review speed events with the driver"},
		})
	}

	if f := signals.Fatigue; f != nil {
		score := s.policy.FatigueScores[f.AlertLevel]
		impact := fatigueImpact(f.AlertLevel)
		switch {
		case f.HoursDriven > s.policy.ExtremeShiftHours:
			score += s.policy.ExtremeShiftPenalty
			impact = dto.ImpactCritical
		case f.HoursDriven > s.policy.LongShiftHours:
			score += s.policy.LongShiftPenalty
		}
		if score > 0 {
			phase.Score += score
			phase.Factors = append(phase.Factors, dto.RiskFactor{
				Category: "Driver Fatigue",
				Weight:   1,
				Score:    score,
				Impact:   impact,
				Description: fmt.Sprintf("Fatigue level %s after %.1f hours driven",
					f.AlertLevel, f.HoursDriven),
				MitigatingActions: []string{"Schedule a rest break before further driving"},
			})
		}
	}

	if len(signals.Incidents) > 0 {
		score := 0.0
		for _, inc := range signals.Incidents {
			score += s.policy.IncidentMultiplier(inc.Severity)
		}
		impact := dto.ImpactMedium
		switch {
		case score > s.policy.SpeedCriticalScore:
			impact = dto.ImpactCritical
		case score > s.policy.SpeedHighScore:
			impact = dto.ImpactHigh
		}
		phase.Score += score
		phase.Factors = append(phase.Factors, dto.RiskFactor{
			Category:          "In-trip Incidents",
			Weight:            1,
			Score:             score,
			Impact:            impact,
			Description:       fmt.Sprintf("%d incident(s) reported during the trip", len(signals.Incidents)),
			MitigatingActions: []string{"File incident reports for supervisor review"},
		})
	}

	if len(signals.Alerts) > 0 {
		score := 0.0
		for _, a := range signals.Alerts {
			score += s.policy.AlertMultiplier(a.Severity)
		}
		impact := dto.ImpactLow
		switch {
		case score >= s.policy.SpeedHighScore:
			impact = dto.ImpactHigh
		case score >= 2:
			impact = dto.ImpactMedium
		}
		phase.Score += score
		phase.Factors = append(phase.Factors, dto.RiskFactor{
			Category:          "Unacknowledged Alerts",
			Weight:            1,
			Score:             score,
			Impact:            impact,
			Description:       fmt.Sprintf("%d real-time alert(s) never acknowledged", len(signals.Alerts)),
			MitigatingActions: []string{"Acknowledge and triage outstanding alerts"},
		})
	}

	return phase
}

// ScorePostTrip carries an existing inspection's own score through and charges
// for incompleteness, maintenance findings, fuel anomalies, or the absence of
// any inspection at all.
func (s *phaseScorerService) ScorePostTrip(signals PostTripSignals) dto.PhaseScore {
	phase := dto.PhaseScore{Factors: []dto.RiskFactor{}}

	if signals.Inspection == nil {
		// A missing inspection is a risk signal, not neutral data.
		phase.Score += s.policy.MissingInspectionPenalty
		phase.Factors = append(phase.Factors, dto.RiskFactor{
			Category:          "Post-trip Inspection",
			Weight:            1,
			Score:             s.policy.MissingInspectionPenalty,
			Impact:            dto.ImpactHigh,
			Description:       "No post-trip inspection was recorded",
			MitigatingActions: []string{"Complete a post-trip inspection"},
		})
	} else {
		inspection := signals.Inspection
		if inspection.TotalScore > 0 {
			impact := dto.ImpactMedium
			if inspection.TotalScore > s.policy.ConditionalPostTripScore {
				impact = dto.ImpactHigh
			}
			phase.Score += inspection.TotalScore
			phase.Factors = append(phase.Factors, dto.RiskFactor{
				Category:    "Post-trip Findings",
				Weight:      1,
				Score:       inspection.TotalScore,
				Impact:      impact,
				Description: "Deductions carried over from the post-trip inspection",
			})
		}
		if inspection.Status != model.InspectionCompleted {
			phase.Score += s.policy.IncompleteInspectionPenalty
			phase.Factors = append(phase.Factors, dto.RiskFactor{
				Category:          "Post-trip Inspection",
				Weight:            1,
				Score:             s.policy.IncompleteInspectionPenalty,
				Impact:            dto.ImpactMedium,
				Description:       fmt.Sprintf("Post-trip inspection is %s", inspection.Status),
				MitigatingActions: []string{"Finish the post-trip inspection"},
			})
		}

		maintenanceScore := 0.0
		flagged := 0
		urgent := false
		for _, item := range inspection.Items {
			if !item.MaintenanceFlagged {
				continue
			}
			flagged++
			maintenanceScore += item.PointsDeducted * s.policy.MaintenanceMultiplier(item.Priority)
			if item.Priority == model.MaintenanceUrgent {
				urgent = true
			}
		}
		if flagged > 0 {
			impact := dto.ImpactMedium
			if urgent {
				impact = dto.ImpactHigh
			}
			phase.Score += maintenanceScore
			phase.Factors = append(phase.Factors, dto.RiskFactor{
				Category:          "Maintenance Requirements",
				Weight:            1,
				Score:             maintenanceScore,
				Impact:            impact,
				Description:       fmt.Sprintf("%d item(s) flagged for maintenance", flagged),
				MitigatingActions: []string{"Schedule the flagged maintenance work"},
			})
		}
	}

	if signals.Fuel != nil && signals.Fuel.AnomalyDetected {
		phase.Score += s.policy.FuelAnomalyPenalty
		phase.Factors = append(phase.Factors, dto.RiskFactor{
			Category:          "Fuel Consumption",
			Weight:            1,
			Score:             s.policy.FuelAnomalyPenalty,
			Impact:            dto.ImpactLow,
			Description:       "Fuel consumption deviated from the vehicle baseline",
			MitigatingActions: []string{"Check for leaks or unauthorized vehicle use"},
		})
	}

	return phase
}

func fatigueImpact(level model.FatigueAlertLevel) dto.RiskImpact {
	switch level {
	case model.FatigueCritical:
		return dto.ImpactCritical
	case model.FatigueWarning:
		return dto.ImpactHigh
	case model.FatigueCaution:
		return dto.ImpactMedium
	default:
		return dto.ImpactLow
	}
}

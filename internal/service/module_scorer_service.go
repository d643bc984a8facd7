package service

import (
	"fmt"

	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"github.com/rs/zerolog/log"
)

// ScoredModule is the Module Scorer's result for one trip module.
type ScoredModule struct {
	Score               float64
	Factor              *dto.RiskFactor // nil when no critical item failed
	CriticalItems       int
	FailedCriticalItems int
	CompletionRate      float64
}

// ModuleScorerService turns one module's answers into a risk contribution.
// Only failed critical items score; non-critical failures matter for
// completion tracking but never for risk.
type ModuleScorerService interface {
	ScoreModule(tm *model.TripModule) ScoredModule
	GetModuleRiskScores(tripID uint) ([]dto.ModuleRiskScore, error)
}

type moduleScorerService struct {
	tripModuleRepo repository.TripModuleRepository
	policy         *RiskPolicy
}

func NewModuleScorerService(tripModuleRepo repository.TripModuleRepository, policy *RiskPolicy) ModuleScorerService {
	return &moduleScorerService{tripModuleRepo: tripModuleRepo, policy: policy}
}

func (s *moduleScorerService) ScoreModule(tm *model.TripModule) ScoredModule {
	items := tm.Module.Items
	result := ScoredModule{CompletionRate: 1.0}
	if len(items) == 0 {
		return result
	}

	// Current (non-superseded) answer per item.
	answerByItem := make(map[uint]*model.ModuleAnswer, len(tm.Answers))
	for i := range tm.Answers {
		ans := &tm.Answers[i]
		if ans.Superseded {
			continue
		}
		answerByItem[ans.ItemID] = ans
	}

	answered := 0
	rawScore := 0.0
	for _, item := range items {
		ans, ok := answerByItem[item.ID]
		if ok {
			answered++
		}
		if !item.Critical {
			continue
		}
		result.CriticalItems++
		if ok && ans.IndicatesFailure(item.FieldType) {
			result.FailedCriticalItems++
			rawScore += item.PointValue * s.policy.CriticalItemWeight(item.Category)
		}
	}
	result.CompletionRate = float64(answered) / float64(len(items))

	// A module without critical items carries no risk weight, whatever its
	// non-critical answers look like.
	if result.CriticalItems == 0 {
		return result
	}
	if result.FailedCriticalItems == 0 {
		return result
	}

	multiplier := s.policy.ModuleMultiplier(tm.Module.ModuleKey)
	result.Score = rawScore * multiplier

	impact := dto.ImpactHigh
	if result.FailedCriticalItems > s.policy.CriticalEscalationCount {
		impact = dto.ImpactCritical
	}
	result.Factor = &dto.RiskFactor{
		Category: "Critical Failures",
		Weight:   multiplier,
		Score:    result.Score,
		Impact:   impact,
		Description: fmt.Sprintf("%d critical item(s) failed in %s",
			result.FailedCriticalItems, tm.Module.Name),
		MitigatingActions: []string{"Resolve the failed items before dispatch"},
	}
	return result
}

func (s *moduleScorerService) GetModuleRiskScores(tripID uint) ([]dto.ModuleRiskScore, error) {
	tripModules, err := s.tripModuleRepo.FindByTripID(tripID)
	if err != nil {
		log.Error().Err(err).Uint("tripID", tripID).Msg("GetModuleRiskScores: failed to load trip modules")
		return nil, fmt.Errorf("failed to load modules for trip %d: %w", tripID, err)
	}

	scores := make([]dto.ModuleRiskScore, 0, len(tripModules))
	for i := range tripModules {
		tm := &tripModules[i]
		scored := s.ScoreModule(tm)
		scores = append(scores, dto.ModuleRiskScore{
			TripModuleID:        tm.ID,
			ModuleID:            tm.ModuleID,
			Name:                tm.Module.Name,
			Phase:               tm.Module.Phase,
			Score:               scored.Score,
			CompletionRate:      scored.CompletionRate,
			CriticalItems:       scored.CriticalItems,
			FailedCriticalItems: scored.FailedCriticalItems,
		})
	}
	return scores, nil
}

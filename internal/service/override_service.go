package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrFailureNotFound        = errors.New("critical failure not found")
	ErrFailureAlreadyResolved = errors.New("critical failure already resolved")
)

// OverrideService evaluates unresolved critical failures independently of the
// numeric composite score, and owns the failure lifecycle actions.
type OverrideService interface {
	CheckCriticalFailureOverride(tripID uint) (*dto.OverrideDecision, error)
	// LogFailure records a manually observed critical failure not tied to a
	// checklist item.
	LogFailure(req dto.LogFailureRequest) (*dto.CriticalFailureResponse, error)
	ListFailures(tripID *uint, resolved *bool) ([]dto.CriticalFailureResponse, error)
	ResolveFailure(failureID uint, resolvedBy uint) (*dto.CriticalFailureResponse, error)
	DeleteFailure(failureID uint) error
}

type overrideService struct {
	tripRepo    repository.TripRepository
	failureRepo repository.CriticalFailureRepository
	policy      *RiskPolicy
}

func NewOverrideService(
	tripRepo repository.TripRepository,
	failureRepo repository.CriticalFailureRepository,
	policy *RiskPolicy,
) OverrideService {
	return &overrideService{tripRepo: tripRepo, failureRepo: failureRepo, policy: policy}
}

func (s *overrideService) CheckCriticalFailureOverride(tripID uint) (*dto.OverrideDecision, error) {
	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, fmt.Errorf("failed to load trip %d: %w", tripID, err)
	}

	failures, err := s.failureRepo.FindUnresolvedByTrip(tripID)
	if err != nil {
		log.Error().Err(err).Uint("tripID", tripID).Msg("CheckCriticalFailureOverride: failed to load failures")
		return nil, fmt.Errorf("failed to load critical failures for trip %d: %w", tripID, err)
	}

	decision := &dto.OverrideDecision{
		TripID:          tripID,
		UnresolvedCount: len(failures),
		Failures:        make([]dto.CriticalFailureResponse, 0, len(failures)),
	}

	for i := range failures {
		f := &failures[i]
		decision.TotalCriticalPoints += f.Points
		if f.Points >= s.policy.OverridePointThreshold {
			decision.NeedsOverride = true
		}
		if f.Points >= s.policy.HighImpactPointThreshold {
			decision.HasHighImpactFailure = true
		}
		if requiresMechanic(f) {
			decision.RequiresMechanicReview = true
		}
		decision.Failures = append(decision.Failures, toFailureResponse(f))
	}
	if decision.TotalCriticalPoints >= s.policy.OverridePointThreshold {
		decision.NeedsOverride = true
	}
	decision.CanApprove = !decision.NeedsOverride && trip.Status == model.TripSubmitted

	return decision, nil
}

// requiresMechanic prefers the structural category; the label substring check
// only covers legacy failures logged before categories existed.
func requiresMechanic(f *model.CriticalFailure) bool {
	if f.Category.RequiresMechanic() {
		return true
	}
	if f.Category != model.CategoryGeneral {
		return false
	}
	label := strings.ToLower(f.Description)
	if f.Item != nil {
		label = strings.ToLower(f.Item.Label)
	}
	return strings.Contains(label, "vehicle") || strings.Contains(label, "mechanical")
}

func (s *overrideService) LogFailure(req dto.LogFailureRequest) (*dto.CriticalFailureResponse, error) {
	if _, err := s.tripRepo.FindByID(req.TripID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, req.TripID)
		}
		return nil, fmt.Errorf("failed to load trip %d: %w", req.TripID, err)
	}

	failure := model.CriticalFailure{
		TripID:      req.TripID,
		Category:    model.ItemCategory(req.Category),
		Description: req.Description,
		Points:      req.Points,
	}
	if !failure.Category.IsValid() {
		failure.Category = model.CategoryGeneral
	}
	failures := []model.CriticalFailure{failure}
	if err := s.failureRepo.CreateBatch(failures); err != nil {
		return nil, fmt.Errorf("failed to log critical failure: %w", err)
	}

	log.Info().Uint("tripID", req.TripID).Float64("points", req.Points).Msg("Critical failure logged manually")
	resp := toFailureResponse(&failures[0])
	return &resp, nil
}

func (s *overrideService) ListFailures(tripID *uint, resolved *bool) ([]dto.CriticalFailureResponse, error) {
	failures, err := s.failureRepo.FindAll(tripID, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to list critical failures: %w", err)
	}
	responses := make([]dto.CriticalFailureResponse, 0, len(failures))
	for i := range failures {
		responses = append(responses, toFailureResponse(&failures[i]))
	}
	return responses, nil
}

func (s *overrideService) ResolveFailure(failureID uint, resolvedBy uint) (*dto.CriticalFailureResponse, error) {
	failure, err := s.failureRepo.FindByID(failureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrFailureNotFound, failureID)
		}
		return nil, fmt.Errorf("failed to load critical failure %d: %w", failureID, err)
	}
	if failure.Resolved {
		return nil, fmt.Errorf("%w: id %d", ErrFailureAlreadyResolved, failureID)
	}

	now := time.Now()
	failure.Resolved = true
	failure.ResolvedAt = &now
	failure.ResolvedBy = &resolvedBy
	if err := s.failureRepo.Update(failure); err != nil {
		return nil, fmt.Errorf("failed to resolve critical failure %d: %w", failureID, err)
	}

	log.Info().Uint("failureID", failureID).Uint("resolvedBy", resolvedBy).Msg("Critical failure resolved")
	resp := toFailureResponse(failure)
	return &resp, nil
}

func (s *overrideService) DeleteFailure(failureID uint) error {
	if _, err := s.failureRepo.FindByID(failureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrFailureNotFound, failureID)
		}
		return fmt.Errorf("failed to load critical failure %d: %w", failureID, err)
	}
	if err := s.failureRepo.Delete(failureID); err != nil {
		return fmt.Errorf("failed to delete critical failure %d: %w", failureID, err)
	}
	log.Info().Uint("failureID", failureID).Msg("Critical failure deleted")
	return nil
}

func toFailureResponse(f *model.CriticalFailure) dto.CriticalFailureResponse {
	var resp dto.CriticalFailureResponse
	if err := copier.Copy(&resp, f); err != nil {
		log.Error().Err(err).Uint("failureID", f.ID).Msg("Error copying critical failure to DTO")
	}
	if f.Item != nil {
		resp.ItemLabel = f.Item.Label
	}
	return resp
}

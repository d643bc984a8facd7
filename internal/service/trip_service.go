package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/metrics"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrInvalidTransition = errors.New("trip status transition not allowed")
	ErrModuleNotOnTrip   = errors.New("module does not belong to this trip")
	ErrItemNotInModule   = errors.New("item does not belong to this module")
	ErrOverrideRequired  = errors.New("unresolved critical failures require a supervisor override")
	ErrApprovalBlocked   = errors.New("approval blocked by a high-impact critical failure")
)

// TripService drives the trip state machine and ties submission to scoring.
type TripService interface {
	CreateTrip(req dto.TripCreateRequest) (*dto.TripDetailResponse, error)
	GetTrip(tripID uint) (*dto.TripDetailResponse, error)
	SubmitAnswers(tripID uint, req dto.ModuleAnswersRequest) (*dto.TripModuleResponse, error)
	// SubmitTrip moves a draft to submitted, materializes critical failures
	// from failed critical items, and persists the first score snapshot.
	SubmitTrip(tripID uint) (*dto.TripDetailResponse, error)
	BeginReview(tripID uint) (*dto.TripDetailResponse, error)
	// Decide approves or rejects. Approval consults the override resolver:
	// high-impact failures block it outright, other unresolved failures need
	// the supervisor's explicit override flag.
	Decide(tripID uint, req dto.TripDecisionRequest) (*dto.TripDetailResponse, error)
	Recalculate(tripID uint, trigger string) (*dto.RiskScoreBreakdown, error)
}

type tripService struct {
	tripRepo        repository.TripRepository
	tripModuleRepo  repository.TripModuleRepository
	checklistRepo   repository.ChecklistRepository
	riskEngine      RiskEngineService
	overrideService OverrideService
	db              *gorm.DB
}

func NewTripService(
	tripRepo repository.TripRepository,
	tripModuleRepo repository.TripModuleRepository,
	checklistRepo repository.ChecklistRepository,
	riskEngine RiskEngineService,
	overrideService OverrideService,
	db *gorm.DB,
) TripService {
	return &tripService{
		tripRepo:        tripRepo,
		tripModuleRepo:  tripModuleRepo,
		checklistRepo:   checklistRepo,
		riskEngine:      riskEngine,
		overrideService: overrideService,
		db:              db,
	}
}

// CreateTrip opens a draft trip and instantiates one TripModule per catalog
// module, so the driver's checklist reflects the catalog as of trip creation.
func (s *tripService) CreateTrip(req dto.TripCreateRequest) (*dto.TripDetailResponse, error) {
	catalog, err := s.checklistRepo.FindAllWithItems()
	if err != nil {
		log.Error().Err(err).Msg("CreateTrip: failed to load checklist catalog")
		return nil, fmt.Errorf("failed to load checklist catalog: %w", err)
	}

	now := time.Now()
	trip := model.Trip{
		DriverID:  req.DriverID,
		VehicleID: req.VehicleID,
		Status:    model.TripDraft,
		StartedAt: &now,
	}
	for _, module := range catalog {
		trip.Modules = append(trip.Modules, model.TripModule{ModuleID: module.ID})
	}

	if err := s.tripRepo.Create(&trip); err != nil {
		log.Error().Err(err).Msg("CreateTrip: failed to create trip")
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	log.Info().Uint("tripID", trip.ID).Uint("driverID", req.DriverID).Msg("Trip created")
	return s.GetTrip(trip.ID)
}

func (s *tripService) GetTrip(tripID uint) (*dto.TripDetailResponse, error) {
	trip, err := s.tripRepo.FindByIDWithDetails(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, fmt.Errorf("failed to load trip %d: %w", tripID, err)
	}
	return toTripDetail(trip), nil
}

// SubmitAnswers records a module's answers while the trip is still a draft.
// Re-submitted items supersede the earlier answer instead of overwriting it.
func (s *tripService) SubmitAnswers(tripID uint, req dto.ModuleAnswersRequest) (*dto.TripModuleResponse, error) {
	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, fmt.Errorf("failed to load trip %d: %w", tripID, err)
	}
	if trip.Status != model.TripDraft {
		return nil, fmt.Errorf("%w: answers only accepted in draft, trip is %s", ErrInvalidTransition, trip.Status)
	}

	tripModule, err := s.tripModuleRepo.FindByID(req.TripModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: trip module %d", ErrModuleNotOnTrip, req.TripModuleID)
		}
		return nil, fmt.Errorf("failed to load trip module %d: %w", req.TripModuleID, err)
	}
	if tripModule.TripID != tripID {
		return nil, fmt.Errorf("%w: trip module %d", ErrModuleNotOnTrip, req.TripModuleID)
	}

	itemSet := make(map[uint]struct{}, len(tripModule.Module.Items))
	for _, item := range tripModule.Module.Items {
		itemSet[item.ID] = struct{}{}
	}
	for _, answer := range req.Answers {
		if _, ok := itemSet[answer.ItemID]; !ok {
			return nil, fmt.Errorf("%w: item %d", ErrItemNotInModule, answer.ItemID)
		}
	}

	for _, answer := range req.Answers {
		row := model.ModuleAnswer{
			TripModuleID: tripModule.ID,
			ItemID:       answer.ItemID,
			Value:        answer.Value,
		}
		if err := s.tripModuleRepo.AppendAnswer(&row); err != nil {
			log.Error().Err(err).Uint("tripModuleID", tripModule.ID).Uint("itemID", answer.ItemID).
				Msg("SubmitAnswers: failed to append answer")
			return nil, fmt.Errorf("failed to record answer for item %d: %w", answer.ItemID, err)
		}
	}

	// Reload to count distinct answered items against the module definition.
	tripModule, err = s.tripModuleRepo.FindByID(tripModule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload trip module %d: %w", req.TripModuleID, err)
	}
	answeredItems := make(map[uint]struct{})
	for _, answer := range tripModule.Answers {
		if !answer.Superseded {
			answeredItems[answer.ItemID] = struct{}{}
		}
	}
	if !tripModule.Completed && len(answeredItems) == len(tripModule.Module.Items) {
		if err := s.tripModuleRepo.MarkCompleted(tripModule.ID, time.Now()); err != nil {
			log.Error().Err(err).Uint("tripModuleID", tripModule.ID).Msg("SubmitAnswers: failed to mark module completed")
			return nil, fmt.Errorf("failed to mark module %d completed: %w", tripModule.ID, err)
		}
		tripModule.Completed = true
	}

	resp := toTripModuleResponse(tripModule)
	return &resp, nil
}

func (s *tripService) SubmitTrip(tripID uint) (*dto.TripDetailResponse, error) {
	trip, err := s.tripRepo.FindByIDWithDetails(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, fmt.Errorf("failed to load trip %d: %w", tripID, err)
	}
	if !trip.Status.CanTransitionTo(model.TripSubmitted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, trip.Status, model.TripSubmitted)
	}

	failures := collectCriticalFailures(trip)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Trip{}).Where("id = ?", trip.ID).
			Update("status", model.TripSubmitted).Error; err != nil {
			return fmt.Errorf("failed to mark trip submitted: %w", err)
		}
		if len(failures) > 0 {
			if err := tx.Create(&failures).Error; err != nil {
				return fmt.Errorf("failed to record critical failures: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("tripID", tripID).Msg("SubmitTrip: transaction failed")
		return nil, err
	}
	log.Info().Uint("tripID", tripID).Int("criticalFailures", len(failures)).Msg("Trip submitted")

	// First snapshot. A scoring failure here must not roll back the
	// submission, but the caller has to know the trip is unscored.
	if _, err := s.riskEngine.CalculateAndSnapshot(tripID, "resubmission"); err != nil {
		log.Error().Err(err).Uint("tripID", tripID).Msg("SubmitTrip: initial scoring failed")
		return nil, err
	}
	return s.GetTrip(tripID)
}

// collectCriticalFailures derives failure records from the current answers:
// one per failed critical item, carrying the item's category and points.
func collectCriticalFailures(trip *model.Trip) []model.CriticalFailure {
	var failures []model.CriticalFailure
	for i := range trip.Modules {
		tm := &trip.Modules[i]
		current := make(map[uint]*model.ModuleAnswer, len(tm.Answers))
		for j := range tm.Answers {
			ans := &tm.Answers[j]
			if !ans.Superseded {
				current[ans.ItemID] = ans
			}
		}
		for _, item := range tm.Module.Items {
			if !item.Critical {
				continue
			}
			ans, ok := current[item.ID]
			if !ok || !ans.IndicatesFailure(item.FieldType) {
				continue
			}
			itemID := item.ID
			failures = append(failures, model.CriticalFailure{
				TripID:      trip.ID,
				ItemID:      &itemID,
				Category:    item.Category,
				Description: fmt.Sprintf("%s failed during %s", item.Label, tm.Module.Name),
				Points:      item.PointValue,
			})
		}
	}
	return failures
}

func (s *tripService) BeginReview(tripID uint) (*dto.TripDetailResponse, error) {
	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, fmt.Errorf("failed to load trip %d: %w", tripID, err)
	}
	if !trip.Status.CanTransitionTo(model.TripUnderReview) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, trip.Status, model.TripUnderReview)
	}
	if err := s.tripRepo.UpdateStatus(tripID, model.TripUnderReview); err != nil {
		return nil, fmt.Errorf("failed to move trip %d under review: %w", tripID, err)
	}
	return s.GetTrip(tripID)
}

func (s *tripService) Decide(tripID uint, req dto.TripDecisionRequest) (*dto.TripDetailResponse, error) {
	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, fmt.Errorf("failed to load trip %d: %w", tripID, err)
	}

	target := model.TripRejected
	if req.Decision == "approve" {
		target = model.TripApproved
	}
	if !trip.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, trip.Status, target)
	}

	if target == model.TripApproved {
		decision, err := s.overrideService.CheckCriticalFailureOverride(tripID)
		if err != nil {
			return nil, err
		}
		if decision.HasHighImpactFailure {
			// No override can clear a high-impact failure; it has to be
			// resolved first.
			metrics.OverrideBlocks.Inc()
			log.Warn().Uint("tripID", tripID).Uint("reviewerID", req.ReviewerID).
				Float64("totalCriticalPoints", decision.TotalCriticalPoints).
				Msg("Approval blocked by high-impact critical failure")
			return nil, fmt.Errorf("%w: trip %d", ErrApprovalBlocked, tripID)
		}
		if decision.NeedsOverride && !req.Override {
			return nil, fmt.Errorf("%w: trip %d", ErrOverrideRequired, tripID)
		}
	}

	now := time.Now()
	trip.Status = target
	trip.CompletedAt = &now
	if err := s.tripRepo.Update(trip); err != nil {
		return nil, fmt.Errorf("failed to record decision for trip %d: %w", tripID, err)
	}
	log.Info().Uint("tripID", tripID).Str("decision", req.Decision).
		Bool("override", req.Override).Uint("reviewerID", req.ReviewerID).
		Msg("Trip decision recorded")
	return s.GetTrip(tripID)
}

func (s *tripService) Recalculate(tripID uint, trigger string) (*dto.RiskScoreBreakdown, error) {
	if trigger == "" {
		trigger = "manual"
	}
	return s.riskEngine.CalculateAndSnapshot(tripID, trigger)
}

func toTripDetail(trip *model.Trip) *dto.TripDetailResponse {
	var resp dto.TripDetailResponse
	if err := copier.Copy(&resp.TripSummaryResponse, trip); err != nil {
		log.Error().Err(err).Uint("tripID", trip.ID).Msg("Error copying trip to DTO")
	}

	resp.Modules = make([]dto.TripModuleResponse, 0, len(trip.Modules))
	for i := range trip.Modules {
		resp.Modules = append(resp.Modules, toTripModuleResponse(&trip.Modules[i]))
	}
	sort.SliceStable(resp.Modules, func(i, j int) bool {
		return resp.Modules[i].StepNumber < resp.Modules[j].StepNumber
	})

	resp.CriticalFailures = make([]dto.CriticalFailureResponse, 0, len(trip.CriticalFailures))
	for i := range trip.CriticalFailures {
		resp.CriticalFailures = append(resp.CriticalFailures, toFailureResponse(&trip.CriticalFailures[i]))
	}
	return &resp
}

func toTripModuleResponse(tm *model.TripModule) dto.TripModuleResponse {
	resp := dto.TripModuleResponse{
		ID:          tm.ID,
		ModuleID:    tm.ModuleID,
		Name:        tm.Module.Name,
		Phase:       tm.Module.Phase,
		StepNumber:  tm.Module.StepNumber,
		Completed:   tm.Completed,
		CompletedAt: tm.CompletedAt,
	}
	for _, answer := range tm.Answers {
		if answer.Superseded {
			continue
		}
		label := answer.Item.Label
		resp.Answers = append(resp.Answers, dto.ModuleAnswerResponse{
			ID:        answer.ID,
			ItemID:    answer.ItemID,
			Label:     label,
			Value:     answer.Value,
			CreatedAt: answer.CreatedAt,
		})
	}
	return resp
}

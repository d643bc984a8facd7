package service

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/metrics"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrTripNotFound = errors.New("trip not found")

// ScoringUnavailableError marks a genuine data-layer failure during scoring.
// It must never collapse to a zero score: a zero would understate risk and
// could clear a vehicle that should stay parked. Callers seeing this error
// refuse to approve dispatch.
type ScoringUnavailableError struct {
	TripID uint
	Stream string
	Err    error
}

func (e *ScoringUnavailableError) Error() string {
	return fmt.Sprintf("risk scoring unavailable for trip %d: %s fetch failed: %v", e.TripID, e.Stream, e.Err)
}

func (e *ScoringUnavailableError) Unwrap() error {
	return e.Err
}

// RiskEngineService weights the three phase scores into the composite result
// and maps it to a risk level and compliance verdict.
type RiskEngineService interface {
	// CalculateComprehensiveRiskScore recomputes the full breakdown from the
	// current state of every upstream stream. Always fresh, never cached.
	CalculateComprehensiveRiskScore(tripID uint) (*dto.RiskScoreBreakdown, error)
	// CalculateAndSnapshot additionally persists the composite onto the trip
	// row, using an optimistic version check to settle concurrent writes.
	CalculateAndSnapshot(tripID uint, trigger string) (*dto.RiskScoreBreakdown, error)
	// Combine is the pure composite step, exposed for reuse and testing.
	Combine(preTrip, inTrip, postTrip dto.PhaseScore) (float64, model.RiskLevel, model.ComplianceStatus)
}

type riskEngineService struct {
	tripRepo       repository.TripRepository
	tripModuleRepo repository.TripModuleRepository
	telemetryRepo  repository.TelemetryRepository
	inspectionRepo repository.InspectionRepository
	phaseScorer    PhaseScorerService
	policy         *RiskPolicy
}

func NewRiskEngineService(
	tripRepo repository.TripRepository,
	tripModuleRepo repository.TripModuleRepository,
	telemetryRepo repository.TelemetryRepository,
	inspectionRepo repository.InspectionRepository,
	phaseScorer PhaseScorerService,
	policy *RiskPolicy,
) RiskEngineService {
	return &riskEngineService{
		tripRepo:       tripRepo,
		tripModuleRepo: tripModuleRepo,
		telemetryRepo:  telemetryRepo,
		inspectionRepo: inspectionRepo,
		phaseScorer:    phaseScorer,
		policy:         policy,
	}
}

// tripSignals is everything the phase reducers need, fetched up front.
type tripSignals struct {
	modules    []model.TripModule
	violations []model.SpeedViolation
	fatigue    *model.FatigueReading
	incidents  []model.TripIncident
	alerts     []model.RealTimeAlert
	inspection *model.PostTripInspection
	fuel       *model.FuelRecord
}

// fetchSignals issues the independent read-only lookups in parallel and joins
// on all of them. Each goroutine writes only its own field, so no lock is
// needed beyond the WaitGroup.
func (s *riskEngineService) fetchSignals(tripID uint) (*tripSignals, error) {
	signals := &tripSignals{}

	type fetchResult struct {
		stream string
		err    error
	}

	var wg sync.WaitGroup
	results := make(chan fetchResult, 7)
	run := func(stream string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- fetchResult{stream: stream, err: fn()}
		}()
	}

	run("trip_modules", func() error {
		var err error
		signals.modules, err = s.tripModuleRepo.FindByTripID(tripID)
		return err
	})
	run("speed_violations", func() error {
		var err error
		signals.violations, err = s.telemetryRepo.SpeedViolationsByTrip(tripID)
		return err
	})
	run("fatigue_monitoring", func() error {
		var err error
		signals.fatigue, err = s.telemetryRepo.LatestFatigueReading(tripID)
		return err
	})
	run("in_trip_incidents", func() error {
		var err error
		signals.incidents, err = s.telemetryRepo.IncidentsByTrip(tripID)
		return err
	})
	run("real_time_alerts", func() error {
		var err error
		signals.alerts, err = s.telemetryRepo.UnacknowledgedAlertsByTrip(tripID)
		return err
	})
	run("post_trip_inspection", func() error {
		var err error
		signals.inspection, err = s.inspectionRepo.FindByTripID(tripID)
		return err
	})
	run("fuel_tracking", func() error {
		var err error
		signals.fuel, err = s.inspectionRepo.FuelRecordByTrip(tripID)
		return err
	})

	wg.Wait()
	close(results)

	for result := range results {
		if result.err != nil {
			log.Error().Err(result.err).Uint("tripID", tripID).Str("stream", result.stream).
				Msg("Risk scoring fetch failed")
			return nil, &ScoringUnavailableError{TripID: tripID, Stream: result.stream, Err: result.err}
		}
	}
	return signals, nil
}

func (s *riskEngineService) CalculateComprehensiveRiskScore(tripID uint) (*dto.RiskScoreBreakdown, error) {
	start := time.Now()

	if _, err := s.tripRepo.FindByID(tripID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, &ScoringUnavailableError{TripID: tripID, Stream: "trip", Err: err}
	}

	signals, err := s.fetchSignals(tripID)
	if err != nil {
		return nil, err
	}

	preTrip := s.phaseScorer.ScorePreTrip(signals.modules)
	inTrip := s.phaseScorer.ScoreInTrip(InTripSignals{
		Violations: signals.violations,
		Fatigue:    signals.fatigue,
		Incidents:  signals.incidents,
		Alerts:     signals.alerts,
	})
	postTrip := s.phaseScorer.ScorePostTrip(PostTripSignals{
		Inspection: signals.inspection,
		Fuel:       signals.fuel,
	})

	totalScore, level, compliance := s.Combine(preTrip, inTrip, postTrip)

	factors := make([]dto.RiskFactor, 0, len(preTrip.Factors)+len(inTrip.Factors)+len(postTrip.Factors))
	factors = append(factors, preTrip.Factors...)
	factors = append(factors, inTrip.Factors...)
	factors = append(factors, postTrip.Factors...)

	breakdown := &dto.RiskScoreBreakdown{
		TripID:           tripID,
		PreTripScore:     preTrip.Score,
		InTripScore:      inTrip.Score,
		PostTripScore:    postTrip.Score,
		TotalScore:       totalScore,
		RiskLevel:        level,
		ComplianceStatus: compliance,
		Factors:          factors,
		ComputedAt:       time.Now(),
	}

	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	metrics.ComplianceVerdicts.WithLabelValues(string(compliance)).Inc()

	log.Info().Uint("tripID", tripID).
		Float64("totalScore", totalScore).
		Str("riskLevel", string(level)).
		Str("compliance", string(compliance)).
		Msg("Risk score computed")
	return breakdown, nil
}

func (s *riskEngineService) Combine(preTrip, inTrip, postTrip dto.PhaseScore) (float64, model.RiskLevel, model.ComplianceStatus) {
	totalScore := math.Round(
		preTrip.Score*s.policy.PreTripWeight +
			inTrip.Score*s.policy.InTripWeight +
			postTrip.Score*s.policy.PostTripWeight,
	)
	level := s.policy.RiskLevelFor(totalScore)
	compliance := s.policy.ComplianceFor(level, preTrip.Score, inTrip.Score, postTrip.Score)
	return totalScore, level, compliance
}

func (s *riskEngineService) CalculateAndSnapshot(tripID uint, trigger string) (*dto.RiskScoreBreakdown, error) {
	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTripNotFound, tripID)
		}
		return nil, &ScoringUnavailableError{TripID: tripID, Stream: "trip", Err: err}
	}

	breakdown, err := s.CalculateComprehensiveRiskScore(tripID)
	if err != nil {
		return nil, err
	}
	metrics.RecalculationTotal.WithLabelValues(trigger).Inc()

	err = s.tripRepo.UpdateScoreSnapshot(tripID, trip.ScoreVersion,
		breakdown.TotalScore, breakdown.RiskLevel, breakdown.ComputedAt)
	if errors.Is(err, repository.ErrSnapshotStale) {
		// Another recalculation landed first. Recomputation is idempotent, so
		// the fresh breakdown is still correct; only the write was redundant.
		metrics.SnapshotConflicts.Inc()
		log.Warn().Uint("tripID", tripID).Str("trigger", trigger).
			Msg("Score snapshot already refreshed concurrently")
		return breakdown, nil
	}
	if err != nil {
		log.Error().Err(err).Uint("tripID", tripID).Msg("Failed to persist score snapshot")
		return nil, fmt.Errorf("failed to persist score snapshot for trip %d: %w", tripID, err)
	}
	return breakdown, nil
}

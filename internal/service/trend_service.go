package service

import (
	"fmt"
	"time"

	"github.com/lshigami/Kinkajou/internal/dto"
	"github.com/lshigami/Kinkajou/internal/model"
	"github.com/lshigami/Kinkajou/internal/repository"
	"github.com/rs/zerolog/log"
)

// TrendService computes rolling history statistics over a driver's completed
// trips. It consumes persisted score snapshots and never feeds back into the
// scoring pipeline.
type TrendService interface {
	CalculateRiskTrend(driverID uint, days int) (*dto.RiskTrend, error)
}

type trendService struct {
	tripRepo repository.TripRepository
}

func NewTrendService(tripRepo repository.TripRepository) TrendService {
	return &trendService{tripRepo: tripRepo}
}

func (s *trendService) CalculateRiskTrend(driverID uint, days int) (*dto.RiskTrend, error) {
	since := time.Now().AddDate(0, 0, -days)
	trips, err := s.tripRepo.FindCompletedByDriverSince(driverID, since)
	if err != nil {
		log.Error().Err(err).Uint("driverID", driverID).Msg("CalculateRiskTrend: failed to load trips")
		return nil, fmt.Errorf("failed to load trips for driver %d: %w", driverID, err)
	}

	trend := &dto.RiskTrend{
		DriverID:         driverID,
		WindowDays:       days,
		RiskDistribution: make(map[model.RiskLevel]int),
	}

	// Only trips that actually carry a score snapshot can contribute to the
	// average or the halves comparison.
	scored := make([]model.Trip, 0, len(trips))
	for _, trip := range trips {
		if trip.RiskLevel != nil {
			trend.RiskDistribution[*trip.RiskLevel]++
		}
		if trip.AggregateScore != nil {
			scored = append(scored, trip)
		}
	}
	trend.TripCount = len(scored)

	// A single data point cannot describe a direction; report the sentinel
	// instead of a misleading 0%.
	if len(scored) < 2 {
		if len(scored) == 1 {
			trend.AverageScore = *scored[0].AggregateScore
		}
		trend.Trend = dto.TrendInsufficientData
		return trend, nil
	}

	total := 0.0
	for _, trip := range scored {
		total += *trip.AggregateScore
	}
	trend.AverageScore = total / float64(len(scored))

	// Trips arrive ordered by completion time; the halves split is purely
	// chronological.
	mid := len(scored) / 2
	olderAvg := meanScore(scored[:mid])
	recentAvg := meanScore(scored[mid:])

	if olderAvg != 0 {
		trend.ImprovementRate = (olderAvg - recentAvg) / olderAvg * 100
	}
	switch {
	case trend.ImprovementRate > 10:
		trend.Trend = dto.TrendImproving
	case trend.ImprovementRate < -10:
		trend.Trend = dto.TrendDeclining
	default:
		trend.Trend = dto.TrendStable
	}
	return trend, nil
}

func meanScore(trips []model.Trip) float64 {
	if len(trips) == 0 {
		return 0
	}
	total := 0.0
	for _, trip := range trips {
		total += *trip.AggregateScore
	}
	return total / float64(len(trips))
}

package repository

import (
	"errors"

	"github.com/lshigami/Kinkajou/internal/model"
	"gorm.io/gorm"
)

// TelemetryRepository reads the aggregated outputs of the ingestion pipeline.
// A trip with no rows for a stream is a normal state, so the single-row
// lookups return (nil, nil) instead of gorm.ErrRecordNotFound.
type TelemetryRepository interface {
	SpeedViolationsByTrip(tripID uint) ([]model.SpeedViolation, error)
	LatestFatigueReading(tripID uint) (*model.FatigueReading, error)
	IncidentsByTrip(tripID uint) ([]model.TripIncident, error)
	UnacknowledgedAlertsByTrip(tripID uint) ([]model.RealTimeAlert, error)
}

type telemetryRepository struct {
	db *gorm.DB
}

func NewTelemetryRepository(db *gorm.DB) TelemetryRepository {
	return &telemetryRepository{db: db}
}

func (r *telemetryRepository) SpeedViolationsByTrip(tripID uint) ([]model.SpeedViolation, error) {
	var violations []model.SpeedViolation
	err := r.db.Where("trip_id = ?", tripID).Order("recorded_at ASC").Find(&violations).Error
	return violations, err
}

func (r *telemetryRepository) LatestFatigueReading(tripID uint) (*model.FatigueReading, error) {
	var reading model.FatigueReading
	err := r.db.Where("trip_id = ?", tripID).Order("recorded_at DESC").First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (r *telemetryRepository) IncidentsByTrip(tripID uint) ([]model.TripIncident, error) {
	var incidents []model.TripIncident
	err := r.db.Where("trip_id = ?", tripID).Order("occurred_at ASC").Find(&incidents).Error
	return incidents, err
}

func (r *telemetryRepository) UnacknowledgedAlertsByTrip(tripID uint) ([]model.RealTimeAlert, error) {
	var alerts []model.RealTimeAlert
	err := r.db.Where("trip_id = ? AND acknowledged = ?", tripID, false).
		Order("created_at ASC").Find(&alerts).Error
	return alerts, err
}

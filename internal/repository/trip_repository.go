package repository

import (
	"errors"
	"time"

	"github.com/lshigami/Kinkajou/internal/model"
	"gorm.io/gorm"
)

// ErrSnapshotStale means another recalculation won the write race; the caller
// already holds a fresh breakdown, so there is nothing to retry.
var ErrSnapshotStale = errors.New("trip score snapshot was updated concurrently")

type TripRepository interface {
	Create(trip *model.Trip) error
	FindByID(id uint) (*model.Trip, error)
	FindByIDWithDetails(id uint) (*model.Trip, error)
	Update(trip *model.Trip) error
	UpdateStatus(id uint, status model.TripStatus) error
	// UpdateScoreSnapshot persists the computed composite onto the trip row
	// with an optimistic version check.
	UpdateScoreSnapshot(id uint, expectedVersion int, score float64, level model.RiskLevel, at time.Time) error
	FindCompletedByDriverSince(driverID uint, since time.Time) ([]model.Trip, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(trip *model.Trip) error {
	// GORM creates associated TripModules when trip.Modules is populated.
	return r.db.Create(trip).Error
}

func (r *tripRepository) FindByID(id uint) (*model.Trip, error) {
	var trip model.Trip
	if err := r.db.First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindByIDWithDetails(id uint) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.
		Preload("Modules.Module.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_in_module ASC")
		}).
		Preload("Modules.Answers.Item").
		Preload("CriticalFailures.Item").
		First(&trip, id).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) Update(trip *model.Trip) error {
	return r.db.Save(trip).Error
}

func (r *tripRepository) UpdateStatus(id uint, status model.TripStatus) error {
	return r.db.Model(&model.Trip{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *tripRepository) UpdateScoreSnapshot(id uint, expectedVersion int, score float64, level model.RiskLevel, at time.Time) error {
	res := r.db.Model(&model.Trip{}).
		Where("id = ? AND score_version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"aggregate_score": score,
			"risk_level":      level,
			"scored_at":       at,
			"score_version":   expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSnapshotStale
	}
	return nil
}

func (r *tripRepository) FindCompletedByDriverSince(driverID uint, since time.Time) ([]model.Trip, error) {
	var trips []model.Trip
	err := r.db.
		Where("driver_id = ? AND completed_at IS NOT NULL AND completed_at >= ? AND status IN ?",
			driverID, since, []model.TripStatus{model.TripApproved, model.TripRejected}).
		Order("completed_at ASC").
		Find(&trips).Error
	return trips, err
}

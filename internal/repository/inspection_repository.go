package repository

import (
	"errors"

	"github.com/lshigami/Kinkajou/internal/model"
	"gorm.io/gorm"
)

// InspectionRepository reads post-trip inspection data. The scorer needs to
// tell "no inspection exists" apart from a fetch failure, so the not-found
// case returns (nil, nil).
type InspectionRepository interface {
	FindByTripID(tripID uint) (*model.PostTripInspection, error)
	FuelRecordByTrip(tripID uint) (*model.FuelRecord, error)
}

type inspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) FindByTripID(tripID uint) (*model.PostTripInspection, error) {
	var inspection model.PostTripInspection
	err := r.db.Preload("Items").Where("trip_id = ?", tripID).First(&inspection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (r *inspectionRepository) FuelRecordByTrip(tripID uint) (*model.FuelRecord, error) {
	var record model.FuelRecord
	err := r.db.Where("trip_id = ?", tripID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

package repository

import (
	"github.com/lshigami/Kinkajou/internal/model"
	"gorm.io/gorm"
)

type CriticalFailureRepository interface {
	CreateBatch(failures []model.CriticalFailure) error
	FindByID(id uint) (*model.CriticalFailure, error)
	FindUnresolvedByTrip(tripID uint) ([]model.CriticalFailure, error)
	FindAll(tripID *uint, resolved *bool) ([]model.CriticalFailure, error)
	Update(failure *model.CriticalFailure) error
	Delete(id uint) error
}

type criticalFailureRepository struct {
	db *gorm.DB
}

func NewCriticalFailureRepository(db *gorm.DB) CriticalFailureRepository {
	return &criticalFailureRepository{db: db}
}

func (r *criticalFailureRepository) CreateBatch(failures []model.CriticalFailure) error {
	if len(failures) == 0 {
		return nil
	}
	return r.db.Create(&failures).Error
}

func (r *criticalFailureRepository) FindByID(id uint) (*model.CriticalFailure, error) {
	var failure model.CriticalFailure
	if err := r.db.Preload("Item").First(&failure, id).Error; err != nil {
		return nil, err
	}
	return &failure, nil
}

func (r *criticalFailureRepository) FindUnresolvedByTrip(tripID uint) ([]model.CriticalFailure, error) {
	var failures []model.CriticalFailure
	err := r.db.Preload("Item").
		Where("trip_id = ? AND resolved = ?", tripID, false).
		Order("points DESC").
		Find(&failures).Error
	return failures, err
}

func (r *criticalFailureRepository) FindAll(tripID *uint, resolved *bool) ([]model.CriticalFailure, error) {
	query := r.db.Preload("Item").Order("created_at DESC")
	if tripID != nil {
		query = query.Where("trip_id = ?", *tripID)
	}
	if resolved != nil {
		query = query.Where("resolved = ?", *resolved)
	}
	var failures []model.CriticalFailure
	err := query.Find(&failures).Error
	return failures, err
}

func (r *criticalFailureRepository) Update(failure *model.CriticalFailure) error {
	return r.db.Save(failure).Error
}

func (r *criticalFailureRepository) Delete(id uint) error {
	return r.db.Delete(&model.CriticalFailure{}, id).Error
}

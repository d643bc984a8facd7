package repository

import (
	"time"

	"github.com/lshigami/Kinkajou/internal/model"
	"gorm.io/gorm"
)

type TripModuleRepository interface {
	FindByID(id uint) (*model.TripModule, error)
	FindByTripID(tripID uint) ([]model.TripModule, error)
	MarkCompleted(id uint, at time.Time) error
	// AppendAnswer inserts a new answer row and marks any previous answer for
	// the same item superseded, preserving the audit trail.
	AppendAnswer(answer *model.ModuleAnswer) error
}

type tripModuleRepository struct {
	db *gorm.DB
}

func NewTripModuleRepository(db *gorm.DB) TripModuleRepository {
	return &tripModuleRepository{db: db}
}

func (r *tripModuleRepository) FindByID(id uint) (*model.TripModule, error) {
	var tm model.TripModule
	err := r.db.
		Preload("Module.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_in_module ASC")
		}).
		Preload("Answers", "superseded = ?", false).
		First(&tm, id).Error
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func (r *tripModuleRepository) FindByTripID(tripID uint) ([]model.TripModule, error) {
	var modules []model.TripModule
	err := r.db.
		Preload("Module.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_in_module ASC")
		}).
		Preload("Answers", "superseded = ?", false).
		Preload("Answers.Item").
		Where("trip_id = ?", tripID).
		Find(&modules).Error
	return modules, err
}

func (r *tripModuleRepository) MarkCompleted(id uint, at time.Time) error {
	return r.db.Model(&model.TripModule{}).Where("id = ?", id).
		Updates(map[string]interface{}{"completed": true, "completed_at": at}).Error
}

func (r *tripModuleRepository) AppendAnswer(answer *model.ModuleAnswer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.ModuleAnswer{}).
			Where("trip_module_id = ? AND item_id = ? AND superseded = ?",
				answer.TripModuleID, answer.ItemID, false).
			Update("superseded", true).Error
		if err != nil {
			return err
		}
		return tx.Create(answer).Error
	})
}

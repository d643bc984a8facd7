package repository

import (
	"github.com/lshigami/Kinkajou/internal/model"
	"gorm.io/gorm"
)

type ChecklistRepository interface {
	Create(module *model.ChecklistModule) error
	FindByID(id uint) (*model.ChecklistModule, error)
	FindAllWithItems() ([]model.ChecklistModule, error)
	Update(module *model.ChecklistModule) error
}

type checklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

func (r *checklistRepository) Create(module *model.ChecklistModule) error {
	// GORM creates the associated items together with the module.
	return r.db.Create(module).Error
}

func (r *checklistRepository) FindByID(id uint) (*model.ChecklistModule, error) {
	var module model.ChecklistModule
	if err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_in_module ASC")
	}).First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *checklistRepository) FindAllWithItems() ([]model.ChecklistModule, error) {
	var modules []model.ChecklistModule
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_in_module ASC")
		}).
		Order("step_number ASC").
		Find(&modules).Error
	return modules, err
}

func (r *checklistRepository) Update(module *model.ChecklistModule) error {
	return r.db.Save(module).Error
}

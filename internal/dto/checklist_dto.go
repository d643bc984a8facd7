package dto

import (
	"time"

	"github.com/lshigami/Kinkajou/internal/model"
)

// ChecklistItemCreateDTO is used within ChecklistModuleCreateDTO for admin
// catalog creation.
type ChecklistItemCreateDTO struct {
	Label         string  `json:"label" binding:"required"`
	FieldType     string  `json:"field_type" binding:"required,oneof=pass_fail yes_no numeric text signature"`
	Category      string  `json:"category" binding:"required,oneof=vehicle mechanical driver documentation environment general"`
	Critical      bool    `json:"critical"`
	PointValue    float64 `json:"point_value" binding:"min=0"`
	OrderInModule int     `json:"order_in_module" binding:"required,min=1"`
}

// ChecklistModuleCreateDTO creates a catalog module with all its items.
type ChecklistModuleCreateDTO struct {
	Name       string                   `json:"name" binding:"required"`
	ModuleKey  string                   `json:"module_key" binding:"required"`
	Phase      string                   `json:"phase" binding:"required,oneof=pre_trip in_trip post_trip"`
	StepNumber int                      `json:"step_number" binding:"required,min=1"`
	Items      []ChecklistItemCreateDTO `json:"items" binding:"required,min=1,dive"`
}

// ChecklistModuleUpdateDTO changes module metadata; items are immutable once
// trips reference them.
type ChecklistModuleUpdateDTO struct {
	Name       *string `json:"name"`
	StepNumber *int    `json:"step_number" binding:"omitempty,min=1"`
}

type ChecklistItemResponse struct {
	ID            uint               `json:"id"`
	ModuleID      uint               `json:"module_id"`
	Label         string             `json:"label"`
	FieldType     model.FieldType    `json:"field_type"`
	Category      model.ItemCategory `json:"category"`
	Critical      bool               `json:"critical"`
	PointValue    float64            `json:"point_value"`
	OrderInModule int                `json:"order_in_module"`
}

type ChecklistModuleResponse struct {
	ID         uint                    `json:"id"`
	Name       string                  `json:"name"`
	ModuleKey  string                  `json:"module_key"`
	Phase      model.TripPhase         `json:"phase"`
	StepNumber int                     `json:"step_number"`
	Items      []ChecklistItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

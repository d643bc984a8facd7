package model

import (
	"time"

	"gorm.io/gorm"
)

// TripPhase is the temporal window a checklist module belongs to.
type TripPhase string

const (
	PhasePreTrip  TripPhase = "pre_trip"
	PhaseInTrip   TripPhase = "in_trip"
	PhasePostTrip TripPhase = "post_trip"
)

func (p TripPhase) IsValid() bool {
	switch p {
	case PhasePreTrip, PhaseInTrip, PhasePostTrip:
		return true
	default:
		return false
	}
}

// FieldType describes how a checklist item is answered.
type FieldType string

const (
	FieldPassFail  FieldType = "pass_fail"
	FieldYesNo     FieldType = "yes_no"
	FieldNumeric   FieldType = "numeric"
	FieldText      FieldType = "text"
	FieldSignature FieldType = "signature"
)

func (f FieldType) IsValid() bool {
	switch f {
	case FieldPassFail, FieldYesNo, FieldNumeric, FieldText, FieldSignature:
		return true
	default:
		return false
	}
}

// ItemCategory classifies what a checklist item inspects. It replaces the old
// practice of sniffing item labels for words like "vehicle" to decide whether a
// failed item needs a mechanic.
type ItemCategory string

const (
	CategoryVehicle       ItemCategory = "vehicle"
	CategoryMechanical    ItemCategory = "mechanical"
	CategoryDriver        ItemCategory = "driver"
	CategoryDocumentation ItemCategory = "documentation"
	CategoryEnvironment   ItemCategory = "environment"
	CategoryGeneral       ItemCategory = "general"
)

func (c ItemCategory) IsValid() bool {
	switch c {
	case CategoryVehicle, CategoryMechanical, CategoryDriver,
		CategoryDocumentation, CategoryEnvironment, CategoryGeneral:
		return true
	default:
		return false
	}
}

// RequiresMechanic reports whether failures in this category must be routed to
// a mechanic before the vehicle can be cleared.
func (c ItemCategory) RequiresMechanic() bool {
	return c == CategoryVehicle || c == CategoryMechanical
}

// ChecklistModule is static catalog data: one inspection step with its items.
// Created at deploy time by admins, never mutated during a trip.
type ChecklistModule struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	Name       string          `json:"name" gorm:"not null"`
	ModuleKey  string          `json:"module_key" gorm:"not null;uniqueIndex"` // e.g. "driver_info", "functional_checks"
	Phase      TripPhase       `json:"phase" gorm:"not null;index"`
	StepNumber int             `json:"step_number" gorm:"not null"`
	Items      []ChecklistItem `json:"items,omitempty" gorm:"foreignKey:ModuleID"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

type ChecklistItem struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ModuleID      uint           `json:"module_id" gorm:"not null;index"`
	Label         string         `json:"label" gorm:"not null"`
	FieldType     FieldType      `json:"field_type" gorm:"not null"`
	Category      ItemCategory   `json:"category" gorm:"not null;default:'general'"`
	Critical      bool           `json:"critical" gorm:"not null;default:false"`
	PointValue    float64        `json:"point_value" gorm:"not null"` // always >= 0
	OrderInModule int            `json:"order_in_module" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

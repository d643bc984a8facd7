package model

import (
	"time"

	"gorm.io/gorm"
)

type InspectionStatus string

const (
	InspectionPending    InspectionStatus = "pending"
	InspectionInProgress InspectionStatus = "in_progress"
	InspectionCompleted  InspectionStatus = "completed"
)

// PostTripInspection is the walk-around done after a trip ends. Its absence is
// itself a risk signal, so the scorer distinguishes "no row" from "row with
// zero findings".
type PostTripInspection struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	TripID     uint             `json:"trip_id" gorm:"not null;uniqueIndex"`
	Status     InspectionStatus `json:"status" gorm:"not null;default:'pending'"`
	TotalScore float64          `json:"total_score" gorm:"not null;default:0"`
	Items      []InspectionItem `json:"items,omitempty" gorm:"foreignKey:InspectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

type MaintenancePriority string

const (
	MaintenanceLow    MaintenancePriority = "low"
	MaintenanceMedium MaintenancePriority = "medium"
	MaintenanceHigh   MaintenancePriority = "high"
	MaintenanceUrgent MaintenancePriority = "urgent"
)

type InspectionItem struct {
	ID                 uint                `gorm:"primarykey" json:"id"`
	InspectionID       uint                `json:"inspection_id" gorm:"not null;index"`
	Label              string              `json:"label" gorm:"not null"`
	MaintenanceFlagged bool                `json:"maintenance_flagged" gorm:"not null;default:false"`
	PointsDeducted     float64             `json:"points_deducted" gorm:"not null;default:0"`
	Priority           MaintenancePriority `json:"priority" gorm:"not null;default:'low'"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	DeletedAt          gorm.DeletedAt      `gorm:"index" json:"-"`
}

// FuelRecord aggregates a trip's fuel usage; AnomalyDetected is set upstream
// when consumption deviates from the vehicle's baseline.
type FuelRecord struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	TripID          uint           `json:"trip_id" gorm:"not null;uniqueIndex"`
	LitersUsed      float64        `json:"liters_used" gorm:"not null;default:0"`
	DistanceKm      float64        `json:"distance_km" gorm:"not null;default:0"`
	AnomalyDetected bool           `json:"anomaly_detected" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

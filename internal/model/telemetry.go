package model

import (
	"time"

	"gorm.io/gorm"
)

// Telemetry rows are written by the ingestion pipeline outside this service;
// the scoring engine only reads them.

type SpeedViolation struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	TripID         uint           `json:"trip_id" gorm:"not null;index"`
	RecordedAt     time.Time      `json:"recorded_at" gorm:"not null"`
	SpeedKph       float64        `json:"speed_kph" gorm:"not null"`
	LimitKph       float64        `json:"limit_kph" gorm:"not null"`
	PointsDeducted float64        `json:"points_deducted" gorm:"not null"` // assigned at ingestion time
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// FatigueAlertLevel is the classification emitted by the fatigue monitor.
type FatigueAlertLevel string

const (
	FatigueNormal   FatigueAlertLevel = "normal"
	FatigueCaution  FatigueAlertLevel = "caution"
	FatigueWarning  FatigueAlertLevel = "warning"
	FatigueCritical FatigueAlertLevel = "critical"
)

type FatigueReading struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	TripID      uint              `json:"trip_id" gorm:"not null;index"`
	RecordedAt  time.Time         `json:"recorded_at" gorm:"not null;index"`
	AlertLevel  FatigueAlertLevel `json:"alert_level" gorm:"not null"`
	HoursDriven float64           `json:"hours_driven" gorm:"not null"`
	CreatedAt   time.Time         `json:"created_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

// IncidentSeverity values outside the known set fall back to the lowest
// scoring multiplier rather than being rejected.
type IncidentSeverity string

const (
	IncidentMinor    IncidentSeverity = "minor"
	IncidentMajor    IncidentSeverity = "major"
	IncidentCritical IncidentSeverity = "critical"
)

type TripIncident struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	TripID      uint             `json:"trip_id" gorm:"not null;index"`
	OccurredAt  time.Time        `json:"occurred_at" gorm:"not null"`
	Severity    IncidentSeverity `json:"severity" gorm:"not null"`
	Description string           `json:"description" gorm:"type:text"`
	CreatedAt   time.Time        `json:"created_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

type AlertSeverity string

const (
	AlertWarning   AlertSeverity = "warning"
	AlertCritical  AlertSeverity = "critical"
	AlertEmergency AlertSeverity = "emergency"
)

type RealTimeAlert struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	TripID         uint           `json:"trip_id" gorm:"not null;index"`
	Severity       AlertSeverity  `json:"severity" gorm:"not null"`
	Message        string         `json:"message" gorm:"type:text"`
	Acknowledged   bool           `json:"acknowledged" gorm:"not null;default:false;index"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

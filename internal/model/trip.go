package model

import (
	"time"

	"gorm.io/gorm"
)

// TripStatus is the trip's review state machine:
// draft -> submitted -> under_review -> approved | rejected.
type TripStatus string

const (
	TripDraft       TripStatus = "draft"
	TripSubmitted   TripStatus = "submitted"
	TripUnderReview TripStatus = "under_review"
	TripApproved    TripStatus = "approved"
	TripRejected    TripStatus = "rejected"
)

func (s TripStatus) IsValid() bool {
	switch s {
	case TripDraft, TripSubmitted, TripUnderReview, TripApproved, TripRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine allows moving to next.
// Approval/rejection is allowed from submitted directly or after review.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	switch s {
	case TripDraft:
		return next == TripSubmitted
	case TripSubmitted:
		return next == TripUnderReview || next == TripApproved || next == TripRejected
	case TripUnderReview:
		return next == TripApproved || next == TripRejected
	default:
		return false
	}
}

// RiskLevel is the discrete band the composite score maps onto.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// ComplianceStatus is the dispatch verdict, distinct from the numeric level.
type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "compliant"
	Conditional  ComplianceStatus = "conditional"
	NonCompliant ComplianceStatus = "non_compliant"
)

// Trip is the aggregate root for one vehicle run: its inspection module
// instances, critical failures, telemetry rows and the persisted score
// snapshot. The snapshot (AggregateScore/RiskLevel/ScoredAt) is a convenience
// copy for fast listing; it can go stale and is only refreshed by an explicit
// recalculation, guarded by ScoreVersion.
type Trip struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	DriverID         uint              `json:"driver_id" gorm:"not null;index"`
	VehicleID        uint              `json:"vehicle_id" gorm:"not null;index"`
	Status           TripStatus        `json:"status" gorm:"not null;default:'draft';index"`
	StartedAt        *time.Time        `json:"started_at,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty" gorm:"index"`
	Modules          []TripModule      `json:"modules,omitempty" gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CriticalFailures []CriticalFailure `json:"critical_failures,omitempty" gorm:"foreignKey:TripID"`

	AggregateScore *float64   `json:"aggregate_score,omitempty"`
	RiskLevel      *RiskLevel `json:"risk_level,omitempty"`
	ScoredAt       *time.Time `json:"scored_at,omitempty"`
	ScoreVersion   int        `json:"score_version" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

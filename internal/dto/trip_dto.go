package dto

import (
	"time"

	"github.com/lshigami/Kinkajou/internal/model"
)

// TripCreateRequest opens a draft trip and instantiates its checklist modules
// from the current catalog.
type TripCreateRequest struct {
	DriverID  uint `json:"driver_id" binding:"required"`
	VehicleID uint `json:"vehicle_id" binding:"required"`
}

// AnswerItemRequest is one item's value inside a module answer submission.
type AnswerItemRequest struct {
	ItemID uint   `json:"item_id" binding:"required"`
	Value  string `json:"value" binding:"required"`
}

// ModuleAnswersRequest submits (or re-submits) answers for one trip module.
type ModuleAnswersRequest struct {
	TripModuleID uint                `json:"trip_module_id" binding:"required"`
	Answers      []AnswerItemRequest `json:"answers" binding:"required,min=1,dive"`
}

// TripDecisionRequest approves or rejects a trip. Override acknowledges
// unresolved critical failures; it is refused when any failure is high-impact.
type TripDecisionRequest struct {
	Decision   string `json:"decision" binding:"required,oneof=approve reject"`
	ReviewerID uint   `json:"reviewer_id" binding:"required"`
	Override   bool   `json:"override"`
	Notes      string `json:"notes"`
}

// RecalculateRequest names who or what triggered the recomputation, for the
// audit trail and the recalculation metric.
type RecalculateRequest struct {
	Trigger string `json:"trigger" binding:"omitempty,oneof=manual resubmission scheduled"`
}

type ModuleAnswerResponse struct {
	ID        uint      `json:"id"`
	ItemID    uint      `json:"item_id"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type TripModuleResponse struct {
	ID          uint                   `json:"id"`
	ModuleID    uint                   `json:"module_id"`
	Name        string                 `json:"name"`
	Phase       model.TripPhase        `json:"phase"`
	StepNumber  int                    `json:"step_number"`
	Completed   bool                   `json:"completed"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Answers     []ModuleAnswerResponse `json:"answers,omitempty"`
}

// TripSummaryResponse is the listing shape. Snapshot fields come from the
// persisted copy on the trip row and may lag behind a fresh computation;
// ScoreVersion and ScoredAt let callers judge staleness.
type TripSummaryResponse struct {
	ID             uint             `json:"id"`
	DriverID       uint             `json:"driver_id"`
	VehicleID      uint             `json:"vehicle_id"`
	Status         model.TripStatus `json:"status"`
	AggregateScore *float64         `json:"aggregate_score,omitempty"`
	RiskLevel      *model.RiskLevel `json:"risk_level,omitempty"`
	ScoredAt       *time.Time       `json:"scored_at,omitempty"`
	ScoreVersion   int              `json:"score_version"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type TripDetailResponse struct {
	TripSummaryResponse
	Modules          []TripModuleResponse      `json:"modules,omitempty"`
	CriticalFailures []CriticalFailureResponse `json:"critical_failures,omitempty"`
}

type CriticalFailureResponse struct {
	ID          uint               `json:"id"`
	TripID      uint               `json:"trip_id"`
	ItemID      *uint              `json:"item_id,omitempty"`
	ItemLabel   string             `json:"item_label,omitempty"`
	Category    model.ItemCategory `json:"category"`
	Description string             `json:"description"`
	Points      float64            `json:"points"`
	Resolved    bool               `json:"resolved"`
	ResolvedAt  *time.Time         `json:"resolved_at,omitempty"`
	ResolvedBy  *uint              `json:"resolved_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// LogFailureRequest manually records a critical failure that was observed
// outside the checklist flow.
type LogFailureRequest struct {
	TripID      uint    `json:"trip_id" binding:"required"`
	Category    string  `json:"category" binding:"omitempty,oneof=vehicle mechanical driver documentation environment general"`
	Description string  `json:"description" binding:"required"`
	Points      float64 `json:"points" binding:"required,min=0"`
}

// ResolveFailureRequest records who cleared the failure.
type ResolveFailureRequest struct {
	ResolvedBy uint   `json:"resolved_by" binding:"required"`
	Notes      string `json:"notes"`
}

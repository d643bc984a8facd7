package model

import (
	"time"

	"gorm.io/gorm"
)

// CriticalFailure is a defect serious enough to block dispatch on its own.
// Rows are created automatically when a critical checklist item fails at
// submission, or logged manually by a supervisor. They only change through an
// explicit resolve action; deletion is reserved for admins.
type CriticalFailure struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TripID      uint           `json:"trip_id" gorm:"not null;index"`
	ItemID      *uint          `json:"item_id,omitempty" gorm:"index"` // originating checklist item, nil when logged manually
	Item        *ChecklistItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Category    ItemCategory   `json:"category" gorm:"not null;default:'general'"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Points      float64        `json:"points" gorm:"not null"`
	Resolved    bool           `json:"resolved" gorm:"not null;default:false;index"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	ResolvedBy  *uint          `json:"resolved_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

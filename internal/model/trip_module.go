package model

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TripModule is one instance of a catalog module attached to a trip. The
// catalog module stays immutable; answers accumulate here.
type TripModule struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	TripID      uint            `json:"trip_id" gorm:"not null;index"`
	ModuleID    uint            `json:"module_id" gorm:"not null;index"`
	Module      ChecklistModule `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	Completed   bool            `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Answers     []ModuleAnswer  `json:"answers,omitempty" gorm:"foreignKey:TripModuleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ModuleAnswer binds a checklist item to a submitted value. Answers are
// append-only: an edit marks the old row superseded and inserts a new one, so
// the audit trail survives. The newest non-superseded row per item is current.
type ModuleAnswer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	TripModuleID uint           `json:"trip_module_id" gorm:"not null;index"`
	ItemID       uint           `json:"item_id" gorm:"not null;index"`
	Item         ChecklistItem  `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Value        string         `json:"value" gorm:"type:text;not null"`
	Superseded   bool           `json:"superseded" gorm:"not null;default:false;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IndicatesFailure reports whether the answer value counts as a failed check
// for its item's field type. Numeric fields record violation counts, so any
// positive value is a failure. Text and signature fields never fail.
func (a *ModuleAnswer) IndicatesFailure(fieldType FieldType) bool {
	switch fieldType {
	case FieldPassFail:
		return a.Value == "fail"
	case FieldYesNo:
		return a.Value == "no"
	case FieldNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
		return err == nil && n > 0
	default:
		return false
	}
}

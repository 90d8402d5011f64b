package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurrencePeriod limits how often an activity type can be credited per member.
type RecurrencePeriod string

const (
	PeriodNone      RecurrencePeriod = "none"
	PeriodQuarterly RecurrencePeriod = "quarterly"
)

// ActivityDefinition is the catalog entry mapping an activity type to its point
// value. Definitions are created/edited/archived by catalog administration;
// this subsystem only reads them. Soft-deleted definitions are excluded from
// new grants but historical completion records referencing them stay valid.
type ActivityDefinition struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ActivityType string           `gorm:"size:50;not null;index" json:"activity_type"`
	PointValue   int              `gorm:"not null;check:point_value >= 0" json:"point_value"`
	Period       RecurrencePeriod `gorm:"size:20;not null;default:'none'" json:"period"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

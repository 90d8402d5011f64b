package entity

import (
	"time"

	"github.com/google/uuid"
)

// Member holds the slice of the account record this subsystem needs: the
// messaging identity used for points-awarded notifications and the cached
// point balance. CachedPoints is a derived projection refreshed by the
// periodic recompute, never the source of truth.
type Member struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName     string    `gorm:"size:100;not null" json:"display_name"`
	MessagingUserID string    `gorm:"size:32;index" json:"messaging_user_id"` // empty when the member has no messaging account linked
	CachedPoints    int       `gorm:"not null;default:0" json:"cached_points"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

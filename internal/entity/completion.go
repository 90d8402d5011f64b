package entity

import (
	"time"

	"github.com/google/uuid"
)

// CompletionRecord is one credited activity in the ledger. The ledger of
// individual records is authoritative; any cached member total is a
// projection reconciled by summation.
//
// DedupKey is the type's natural key rendered as a single string (quarter
// bucket included for quarterly types). The unique index on it makes grants
// idempotent at the store level: a replayed event conflicts and inserts
// nothing.
type CompletionRecord struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_member_occurred,priority:1" json:"member_id"`
	ActivityDefinitionID *uuid.UUID `gorm:"type:uuid" json:"activity_definition_id"` // nil only for one-off awards
	ActivityType         string     `gorm:"size:50;not null;index" json:"activity_type"`
	Points               int        `gorm:"not null" json:"points"` // snapshot of the catalog value at grant time
	DedupKey             string     `gorm:"size:200;not null;uniqueIndex" json:"-"`

	// Type-specific linkage. Only the fields relevant to ActivityType are set.
	EventID           string `gorm:"size:64" json:"event_id,omitempty"`
	ChannelID         string `gorm:"size:64" json:"channel_id,omitempty"`
	MessageReactedTo  string `gorm:"size:64" json:"message_reacted_to,omitempty"`
	ThreadRepliedTo   string `gorm:"size:64" json:"thread_replied_to,omitempty"`
	SurveyRespondedTo string `gorm:"size:64" json:"survey_responded_to,omitempty"`
	WorkExperienceID  string `gorm:"size:64" json:"work_experience_id,omitempty"`
	Year              int    `json:"year,omitempty"`
	Description       string `gorm:"size:255" json:"description,omitempty"`

	OccurredAt time.Time `gorm:"not null;index:idx_member_occurred,priority:2;index:idx_occurred" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

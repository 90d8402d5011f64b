package entity

import (
	"time"

	"github.com/google/uuid"
)

// Engagement rows mirror the collaborator-owned source data the engines read
// for pre-checks and still-justified guards. The grant/revoke engines never
// write these tables; by the time an undo event arrives they already reflect
// the post-removal state.

// Message is a channel message. A non-empty ThreadID marks it as a thread
// reply; reactions on replies never earn points.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChannelID string    `gorm:"size:64;not null;uniqueIndex:idx_channel_message,priority:1" json:"channel_id"`
	MessageID string    `gorm:"size:64;not null;uniqueIndex:idx_channel_message,priority:2" json:"message_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	ThreadID  string    `gorm:"size:64;index" json:"thread_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsThreadReply reports whether the message lives inside a thread rather than
// at the top level of its channel.
func (m *Message) IsThreadReply() bool {
	return m.ThreadID != "" && m.ThreadID != m.MessageID
}

// Reaction is one emoji reaction by a member on a message. A member can have
// several (different emoji) on the same message; any remaining one keeps the
// reaction credit justified.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChannelID string    `gorm:"size:64;not null;index:idx_reaction_lookup,priority:1" json:"channel_id"`
	MessageID string    `gorm:"size:64;not null;index:idx_reaction_lookup,priority:2" json:"message_id"`
	MemberID  uuid.UUID `gorm:"type:uuid;not null;index:idx_reaction_lookup,priority:3" json:"member_id"`
	Emoji     string    `gorm:"size:50;not null" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileEntryKind distinguishes the profile sections whose edits earn
// quarterly credits.
type ProfileEntryKind string

const (
	ProfileEntryEducation ProfileEntryKind = "education"
	ProfileEntryWork      ProfileEntryKind = "work"
)

// ProfileEntry is an education or work history record on a member profile.
type ProfileEntry struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_profile_member_kind,priority:1" json:"member_id"`
	Kind      ProfileEntryKind `gorm:"size:20;not null;index:idx_profile_member_kind,priority:2" json:"kind"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

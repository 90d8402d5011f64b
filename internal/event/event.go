package event

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ActivityType is the closed set of creditable member actions. The grant and
// revoke engines switch exhaustively over these values; a new type that is
// not wired into both switches is rejected as unsupported instead of silently
// credited.
type ActivityType string

const (
	TypeAttendEvent            ActivityType = "attend_event"
	TypeReactToMessage         ActivityType = "react_to_message"
	TypeReplyToThread          ActivityType = "reply_to_thread"
	TypeRespondToSurvey        ActivityType = "respond_to_survey"
	TypeUpdateEducationHistory ActivityType = "update_education_history"
	TypeUpdateWorkHistory      ActivityType = "update_work_history"
	TypeJoinDirectory          ActivityType = "join_directory"
	TypeRenewMembership        ActivityType = "renew_membership"
	TypeOneOff                 ActivityType = "one_off"
)

// KnownTypes lists every activity type the engines understand.
var KnownTypes = []ActivityType{
	TypeAttendEvent,
	TypeReactToMessage,
	TypeReplyToThread,
	TypeRespondToSurvey,
	TypeUpdateEducationHistory,
	TypeUpdateWorkHistory,
	TypeJoinDirectory,
	TypeRenewMembership,
	TypeOneOff,
}

const activityTypeOneOf = "attend_event react_to_message reply_to_thread respond_to_survey update_education_history update_work_history join_directory renew_membership one_off"

var validate = validator.New()

// ActivityCompleted is the inbound "activity completed" event, a tagged union
// keyed by Type. Each variant carries exactly the fields of its natural key;
// the one_off variant additionally carries Points and Description and
// bypasses the catalog.
type ActivityCompleted struct {
	Type       ActivityType `json:"type" validate:"required,oneof=attend_event react_to_message reply_to_thread respond_to_survey update_education_history update_work_history join_directory renew_membership one_off"`
	MemberID   uuid.UUID    `json:"member_id" validate:"required"`
	OccurredAt time.Time    `json:"occurred_at"`

	EventID           string `json:"event_id,omitempty" validate:"required_if=Type attend_event"`
	ChannelID         string `json:"channel_id,omitempty" validate:"required_if=Type react_to_message,required_if=Type reply_to_thread"`
	MessageReactedTo  string `json:"message_reacted_to,omitempty" validate:"required_if=Type react_to_message"`
	ThreadRepliedTo   string `json:"thread_replied_to,omitempty" validate:"required_if=Type reply_to_thread"`
	SurveyRespondedTo string `json:"survey_responded_to,omitempty" validate:"required_if=Type respond_to_survey"`
	WorkExperienceID  string `json:"work_experience_id,omitempty"`
	Year              int    `json:"year,omitempty" validate:"required_if=Type renew_membership"`

	// one_off only
	Points      int    `json:"points,omitempty" validate:"min=0"`
	Description string `json:"description,omitempty" validate:"required_if=Type one_off"`
}

// Validate checks the variant's required fields. It defaults OccurredAt to
// now for events whose producer omits it.
func (e *ActivityCompleted) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("activity completed event: %w", err)
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return nil
}

// ActivityCompletedUndo is the inbound "activity completed undone" event. It
// mirrors the completed variant's natural-key fields so the revoke engine can
// locate the matching ledger row and re-evaluate the justification.
type ActivityCompletedUndo struct {
	Type       ActivityType `json:"type" validate:"required,oneof=attend_event react_to_message reply_to_thread respond_to_survey update_education_history update_work_history join_directory renew_membership"`
	MemberID   uuid.UUID    `json:"member_id" validate:"required"`
	OccurredAt time.Time    `json:"occurred_at"`

	EventID           string `json:"event_id,omitempty" validate:"required_if=Type attend_event"`
	ChannelID         string `json:"channel_id,omitempty" validate:"required_if=Type react_to_message,required_if=Type reply_to_thread"`
	MessageReactedTo  string `json:"message_reacted_to,omitempty" validate:"required_if=Type react_to_message"`
	ThreadRepliedTo   string `json:"thread_replied_to,omitempty" validate:"required_if=Type reply_to_thread"`
	SurveyRespondedTo string `json:"survey_responded_to,omitempty" validate:"required_if=Type respond_to_survey"`
	Year              int    `json:"year,omitempty" validate:"required_if=Type renew_membership"`
}

// Validate checks the variant's required fields and defaults OccurredAt.
func (e *ActivityCompletedUndo) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("activity undo event: %w", err)
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return nil
}

package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityCompletedValidate(t *testing.T) {
	memberID := uuid.New()

	tests := []struct {
		name    string
		ev      ActivityCompleted
		wantErr bool
	}{
		{
			name:    "attend event with event id",
			ev:      ActivityCompleted{Type: TypeAttendEvent, MemberID: memberID, EventID: "E1"},
			wantErr: false,
		},
		{
			name:    "attend event missing event id",
			ev:      ActivityCompleted{Type: TypeAttendEvent, MemberID: memberID},
			wantErr: true,
		},
		{
			name:    "reaction with channel and message",
			ev:      ActivityCompleted{Type: TypeReactToMessage, MemberID: memberID, ChannelID: "C1", MessageReactedTo: "MSG1"},
			wantErr: false,
		},
		{
			name:    "reaction missing message",
			ev:      ActivityCompleted{Type: TypeReactToMessage, MemberID: memberID, ChannelID: "C1"},
			wantErr: true,
		},
		{
			name:    "thread reply missing channel",
			ev:      ActivityCompleted{Type: TypeReplyToThread, MemberID: memberID, ThreadRepliedTo: "T1"},
			wantErr: true,
		},
		{
			name:    "survey response",
			ev:      ActivityCompleted{Type: TypeRespondToSurvey, MemberID: memberID, SurveyRespondedTo: "S1"},
			wantErr: false,
		},
		{
			name:    "membership renewal missing year",
			ev:      ActivityCompleted{Type: TypeRenewMembership, MemberID: memberID},
			wantErr: true,
		},
		{
			name:    "one off with description",
			ev:      ActivityCompleted{Type: TypeOneOff, MemberID: memberID, Points: 25, Description: "hackathon win"},
			wantErr: false,
		},
		{
			name:    "one off missing description",
			ev:      ActivityCompleted{Type: TypeOneOff, MemberID: memberID, Points: 25},
			wantErr: true,
		},
		{
			name:    "unknown type",
			ev:      ActivityCompleted{Type: "win_lottery", MemberID: memberID},
			wantErr: true,
		},
		{
			name:    "missing member",
			ev:      ActivityCompleted{Type: TypeJoinDirectory},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActivityCompletedValidateDefaultsOccurredAt(t *testing.T) {
	ev := ActivityCompleted{Type: TypeJoinDirectory, MemberID: uuid.New()}
	require.NoError(t, ev.Validate())
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestActivityCompletedUndoValidate(t *testing.T) {
	memberID := uuid.New()

	// one_off is not reversible and must be rejected.
	ev := ActivityCompletedUndo{Type: TypeOneOff, MemberID: memberID}
	assert.Error(t, ev.Validate())

	undo := ActivityCompletedUndo{Type: TypeReactToMessage, MemberID: memberID, ChannelID: "C1", MessageReactedTo: "MSG1"}
	assert.NoError(t, undo.Validate())

	missing := ActivityCompletedUndo{Type: TypeReactToMessage, MemberID: memberID}
	assert.Error(t, missing.Validate())
}

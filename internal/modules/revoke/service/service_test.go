package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/internal/event"
	catalogRepo "github.com/alumnihub/pointsledger/internal/modules/catalog/repository"
	engagementRepo "github.com/alumnihub/pointsledger/internal/modules/engagement/repository"
	ledgerRepo "github.com/alumnihub/pointsledger/internal/modules/ledger/repository"
	"github.com/alumnihub/pointsledger/internal/period"
	"github.com/alumnihub/pointsledger/internal/testutil"
)

func newRevoke(t *testing.T) (RevokeService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewRevokeService(
		catalogRepo.NewCatalogRepository(db),
		ledgerRepo.NewLedgerRepository(db),
		engagementRepo.NewEngagementRepository(db),
	)
	return svc, db
}

func seedReactionCredit(t *testing.T, db *gorm.DB, member uuid.UUID, channelID, messageID string) {
	t.Helper()
	require.NoError(t, db.Create(&entity.CompletionRecord{
		ID:               uuid.New(),
		MemberID:         member,
		ActivityType:     string(event.TypeReactToMessage),
		Points:           1,
		DedupKey:         "react_to_message:" + channelID + ":" + messageID + ":" + member.String(),
		ChannelID:        channelID,
		MessageReactedTo: messageID,
		OccurredAt:       time.Now(),
	}).Error)
}

func seedReaction(t *testing.T, db *gorm.DB, member uuid.UUID, channelID, messageID, emoji string) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Reaction{
		ChannelID: channelID,
		MessageID: messageID,
		MemberID:  member,
		Emoji:     emoji,
	}).Error)
}

func recordCount(t *testing.T, db *gorm.DB, member uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&entity.CompletionRecord{}).
		Where("member_id = ?", member).Count(&count).Error)
	return count
}

func TestRevokeReactionKeptWhileAnotherRemains(t *testing.T) {
	svc, db := newRevoke(t)

	member := uuid.New()
	seedReactionCredit(t, db, member, "C1", "MSG1")
	// One of the member's two reactions was removed; this one remains.
	seedReaction(t, db, member, "C1", "MSG1", "tada")

	require.NoError(t, svc.Revoke(context.Background(), &event.ActivityCompletedUndo{
		Type:             event.TypeReactToMessage,
		MemberID:         member,
		ChannelID:        "C1",
		MessageReactedTo: "MSG1",
		OccurredAt:       time.Now(),
	}))

	assert.EqualValues(t, 1, recordCount(t, db, member), "credit must survive while a reaction remains")
}

func TestRevokeReactionDeletedWhenNoneRemain(t *testing.T) {
	svc, db := newRevoke(t)

	member := uuid.New()
	seedReactionCredit(t, db, member, "C1", "MSG1")

	undo := &event.ActivityCompletedUndo{
		Type:             event.TypeReactToMessage,
		MemberID:         member,
		ChannelID:        "C1",
		MessageReactedTo: "MSG1",
		OccurredAt:       time.Now(),
	}
	require.NoError(t, svc.Revoke(context.Background(), undo))
	assert.EqualValues(t, 0, recordCount(t, db, member))

	// Revoking again is a safe no-op.
	require.NoError(t, svc.Revoke(context.Background(), undo))
}

func TestRevokeNeverGrantedIsNoOp(t *testing.T) {
	svc, _ := newRevoke(t)

	require.NoError(t, svc.Revoke(context.Background(), &event.ActivityCompletedUndo{
		Type:       event.TypeAttendEvent,
		MemberID:   uuid.New(),
		EventID:    "E1",
		OccurredAt: time.Now(),
	}))
}

func TestRevokeThreadReplyGuard(t *testing.T) {
	svc, db := newRevoke(t)

	member := uuid.New()
	require.NoError(t, db.Create(&entity.CompletionRecord{
		ID:              uuid.New(),
		MemberID:        member,
		ActivityType:    string(event.TypeReplyToThread),
		Points:          2,
		DedupKey:        "reply_to_thread:C1:T1:" + member.String(),
		ChannelID:       "C1",
		ThreadRepliedTo: "T1",
		OccurredAt:      time.Now(),
	}).Error)

	// Another message by the member still sits in the thread.
	require.NoError(t, db.Create(&entity.Message{
		ChannelID: "C1",
		MessageID: "MSG9",
		AuthorID:  member,
		ThreadID:  "T1",
	}).Error)

	undo := &event.ActivityCompletedUndo{
		Type:            event.TypeReplyToThread,
		MemberID:        member,
		ChannelID:       "C1",
		ThreadRepliedTo: "T1",
		OccurredAt:      time.Now(),
	}
	require.NoError(t, svc.Revoke(context.Background(), undo))
	assert.EqualValues(t, 1, recordCount(t, db, member))

	// Last message gone: the credit goes with it.
	require.NoError(t, db.Where("channel_id = ? AND message_id = ?", "C1", "MSG9").
		Delete(&entity.Message{}).Error)
	require.NoError(t, svc.Revoke(context.Background(), undo))
	assert.EqualValues(t, 0, recordCount(t, db, member))
}

func TestRevokeQuarterlyProfileUpdate(t *testing.T) {
	svc, db := newRevoke(t)

	require.NoError(t, db.Create(&entity.ActivityDefinition{
		ID:           uuid.New(),
		ActivityType: string(event.TypeUpdateWorkHistory),
		PointValue:   5,
		Period:       entity.PeriodQuarterly,
	}).Error)

	member := uuid.New()
	occurred := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&entity.CompletionRecord{
		ID:           uuid.New(),
		MemberID:     member,
		ActivityType: string(event.TypeUpdateWorkHistory),
		Points:       5,
		DedupKey:     "update_work_history:" + member.String() + ":" + period.QuarterKey(occurred),
		OccurredAt:   occurred,
	}).Error)

	// A work entry created in the same quarter keeps the credit justified.
	require.NoError(t, db.Create(&entity.ProfileEntry{
		ID:        uuid.New(),
		MemberID:  member,
		Kind:      entity.ProfileEntryWork,
		CreatedAt: occurred.Add(48 * time.Hour),
	}).Error)

	undo := &event.ActivityCompletedUndo{
		Type:       event.TypeUpdateWorkHistory,
		MemberID:   member,
		OccurredAt: occurred.Add(72 * time.Hour),
	}
	require.NoError(t, svc.Revoke(context.Background(), undo))
	assert.EqualValues(t, 1, recordCount(t, db, member))

	// All in-quarter entries removed: the credit is revoked.
	require.NoError(t, db.Where("member_id = ?", member).Delete(&entity.ProfileEntry{}).Error)
	require.NoError(t, svc.Revoke(context.Background(), undo))
	assert.EqualValues(t, 0, recordCount(t, db, member))
}

func TestRevokeAttendEventUnconditional(t *testing.T) {
	svc, db := newRevoke(t)

	member := uuid.New()
	require.NoError(t, db.Create(&entity.CompletionRecord{
		ID:           uuid.New(),
		MemberID:     member,
		ActivityType: string(event.TypeAttendEvent),
		Points:       10,
		DedupKey:     "attend_event:" + member.String() + ":E1",
		EventID:      "E1",
		OccurredAt:   time.Now(),
	}).Error)

	require.NoError(t, svc.Revoke(context.Background(), &event.ActivityCompletedUndo{
		Type:       event.TypeAttendEvent,
		MemberID:   member,
		EventID:    "E1",
		OccurredAt: time.Now(),
	}))
	assert.EqualValues(t, 0, recordCount(t, db, member))
}

func TestRevokeOnlyTouchesMatchingLinkage(t *testing.T) {
	svc, db := newRevoke(t)

	member := uuid.New()
	seedReactionCredit(t, db, member, "C1", "MSG1")
	seedReactionCredit(t, db, member, "C1", "MSG2")

	require.NoError(t, svc.Revoke(context.Background(), &event.ActivityCompletedUndo{
		Type:             event.TypeReactToMessage,
		MemberID:         member,
		ChannelID:        "C1",
		MessageReactedTo: "MSG1",
		OccurredAt:       time.Now(),
	}))

	var remaining entity.CompletionRecord
	require.NoError(t, db.First(&remaining, "member_id = ?", member).Error)
	assert.Equal(t, "MSG2", remaining.MessageReactedTo)
}

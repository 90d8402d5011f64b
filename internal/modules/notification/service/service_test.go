package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/internal/event"
	memberRepo "github.com/alumnihub/pointsledger/internal/modules/member/repository"
	"github.com/alumnihub/pointsledger/internal/testutil"
)

type fakeMessenger struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	userID string
	text   string
}

func (f *fakeMessenger) SendDirectMessage(_ context.Context, userID, text string) error {
	f.sent = append(f.sent, sentMessage{userID: userID, text: text})
	return f.err
}

func newNotification(t *testing.T) (NotificationService, *fakeMessenger, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	messenger := &fakeMessenger{}
	svc := NewNotificationService(memberRepo.NewMemberRepository(db), messenger)
	return svc, messenger, db
}

func TestPointsAwardedBelowThresholdSkipped(t *testing.T) {
	svc, messenger, db := newNotification(t)

	member := uuid.New()
	require.NoError(t, db.Create(&entity.Member{ID: member, DisplayName: "alice", MessagingUserID: "U1"}).Error)

	svc.PointsAwarded(context.Background(), member, event.TypeReactToMessage, 1)
	assert.Empty(t, messenger.sent)
}

func TestPointsAwardedAtThresholdSends(t *testing.T) {
	svc, messenger, db := newNotification(t)

	member := uuid.New()
	require.NoError(t, db.Create(&entity.Member{ID: member, DisplayName: "alice", MessagingUserID: "U1"}).Error)

	svc.PointsAwarded(context.Background(), member, event.TypeAttendEvent, NotificationThreshold)

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "U1", messenger.sent[0].userID)
	assert.Contains(t, messenger.sent[0].text, "10 points")
	assert.Contains(t, messenger.sent[0].text, "attending an event")
}

func TestPointsAwardedNoMessagingAccount(t *testing.T) {
	svc, messenger, db := newNotification(t)

	member := uuid.New()
	require.NoError(t, db.Create(&entity.Member{ID: member, DisplayName: "alice"}).Error)

	svc.PointsAwarded(context.Background(), member, event.TypeRespondToSurvey, 15)
	assert.Empty(t, messenger.sent)
}

func TestPointsAwardedUnknownMember(t *testing.T) {
	svc, messenger, _ := newNotification(t)

	svc.PointsAwarded(context.Background(), uuid.New(), event.TypeOneOff, 25)
	assert.Empty(t, messenger.sent)
}

func TestPointsAwardedMessengerFailureSwallowed(t *testing.T) {
	svc, messenger, db := newNotification(t)
	messenger.err = errors.New("broker down")

	member := uuid.New()
	require.NoError(t, db.Create(&entity.Member{ID: member, DisplayName: "alice", MessagingUserID: "U1"}).Error)

	// Must not panic or surface the error; delivery is best-effort.
	svc.PointsAwarded(context.Background(), member, event.TypeRenewMembership, 25)
	assert.Len(t, messenger.sent, 1)
}

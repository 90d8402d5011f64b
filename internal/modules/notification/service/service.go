package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alumnihub/pointsledger/internal/event"
	memberRepo "github.com/alumnihub/pointsledger/internal/modules/member/repository"
)

// NotificationThreshold is the minimum award size that triggers a
// points-awarded message.
const NotificationThreshold = 10

type NotificationService interface {
	// PointsAwarded tells the member about a fresh credit when it reaches the
	// threshold. Best-effort: failures are logged, never returned — points
	// are the source of truth, the message is not.
	PointsAwarded(ctx context.Context, memberID uuid.UUID, activityType event.ActivityType, points int)
}

type notificationService struct {
	members   memberRepo.MemberRepository
	messenger Messenger
}

func NewNotificationService(members memberRepo.MemberRepository, messenger Messenger) NotificationService {
	return &notificationService{
		members:   members,
		messenger: messenger,
	}
}

func (s *notificationService) PointsAwarded(ctx context.Context, memberID uuid.UUID, activityType event.ActivityType, points int) {
	if points < NotificationThreshold {
		return
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		zap.L().Warn("skipping points notification, member lookup failed",
			zap.String("member_id", memberID.String()),
			zap.Error(err))
		return
	}
	if member.MessagingUserID == "" {
		// No messaging account linked, nothing to deliver to.
		return
	}

	text := fmt.Sprintf("🎉 You just earned %d points for %s!", points, describe(activityType))
	if err := s.messenger.SendDirectMessage(ctx, member.MessagingUserID, text); err != nil {
		zap.L().Error("failed to dispatch points notification",
			zap.String("member_id", memberID.String()),
			zap.String("activity_type", string(activityType)),
			zap.Error(err))
	}
}

func describe(t event.ActivityType) string {
	switch t {
	case event.TypeAttendEvent:
		return "attending an event"
	case event.TypeReactToMessage:
		return "reacting to a message"
	case event.TypeReplyToThread:
		return "replying in a thread"
	case event.TypeRespondToSurvey:
		return "responding to a survey"
	case event.TypeUpdateEducationHistory:
		return "updating your education history"
	case event.TypeUpdateWorkHistory:
		return "updating your work history"
	case event.TypeJoinDirectory:
		return "joining the member directory"
	case event.TypeRenewMembership:
		return "renewing your membership"
	case event.TypeOneOff:
		return "a special award"
	default:
		return string(t)
	}
}

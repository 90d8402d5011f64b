package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/internal/event"
	catalogRepo "github.com/alumnihub/pointsledger/internal/modules/catalog/repository"
	engagementRepo "github.com/alumnihub/pointsledger/internal/modules/engagement/repository"
	ledgerRepo "github.com/alumnihub/pointsledger/internal/modules/ledger/repository"
	notifService "github.com/alumnihub/pointsledger/internal/modules/notification/service"
	"github.com/alumnihub/pointsledger/internal/period"
	"github.com/alumnihub/pointsledger/pkg/apperror"
)

// GrantService credits a completion event. Business-rule rejections
// (duplicate delivery, already credited this quarter, self-action, reaction
// on a thread reply) resolve to a nil-error no-op; only malformed input and
// store failures return errors, which the queue retries.
type GrantService interface {
	Grant(ctx context.Context, ev *event.ActivityCompleted) error
}

type grantService struct {
	catalog       catalogRepo.CatalogRepository
	ledger        ledgerRepo.LedgerRepository
	engagement    engagementRepo.EngagementRepository
	notifications notifService.NotificationService

	// allowSelf disables the self-reaction/self-reply exclusion. Off in a
	// production posture.
	allowSelf bool
}

func NewGrantService(
	catalog catalogRepo.CatalogRepository,
	ledger ledgerRepo.LedgerRepository,
	engagement engagementRepo.EngagementRepository,
	notifications notifService.NotificationService,
	allowSelf bool,
) GrantService {
	return &grantService{
		catalog:       catalog,
		ledger:        ledger,
		engagement:    engagement,
		notifications: notifications,
		allowSelf:     allowSelf,
	}
}

func (s *grantService) Grant(ctx context.Context, ev *event.ActivityCompleted) error {
	if ev.Type == event.TypeOneOff {
		return s.grantOneOff(ctx, ev)
	}

	// A missing catalog entry is a configuration error, not a business
	// rejection: fail loudly so the queue surfaces it.
	def, err := s.catalog.FindActiveByType(ctx, ev.Type)
	if err != nil {
		return err
	}

	rec, ok, err := s.buildRecord(ctx, ev, def)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	inserted, err := s.ledger.Insert(ctx, rec)
	if err != nil {
		return err
	}
	if !inserted {
		zap.L().Debug("duplicate completion event ignored",
			zap.String("member_id", ev.MemberID.String()),
			zap.String("activity_type", string(ev.Type)),
			zap.String("dedup_key", rec.DedupKey))
		return nil
	}

	s.notifications.PointsAwarded(ctx, ev.MemberID, ev.Type, rec.Points)
	return nil
}

func (s *grantService) grantOneOff(ctx context.Context, ev *event.ActivityCompleted) error {
	// One-off awards bypass the catalog and are not deduplicated against each
	// other: every award is an independent ledger row keyed by its own id.
	rec := &entity.CompletionRecord{
		ID:           uuid.New(),
		MemberID:     ev.MemberID,
		ActivityType: string(event.TypeOneOff),
		Points:       ev.Points,
		Description:  ev.Description,
		OccurredAt:   ev.OccurredAt,
	}
	rec.DedupKey = fmt.Sprintf("one_off:%s", rec.ID)

	if _, err := s.ledger.Insert(ctx, rec); err != nil {
		return err
	}

	s.notifications.PointsAwarded(ctx, ev.MemberID, event.TypeOneOff, rec.Points)
	return nil
}

// buildRecord runs the type-specific pre-checks and assembles the ledger row
// with its natural key. ok=false means the event was legitimately rejected
// and the grant is a no-op.
func (s *grantService) buildRecord(ctx context.Context, ev *event.ActivityCompleted, def *entity.ActivityDefinition) (*entity.CompletionRecord, bool, error) {
	rec := &entity.CompletionRecord{
		MemberID:             ev.MemberID,
		ActivityDefinitionID: &def.ID,
		ActivityType:         string(ev.Type),
		Points:               def.PointValue,
		OccurredAt:           ev.OccurredAt,
	}

	switch ev.Type {
	case event.TypeAttendEvent:
		rec.EventID = ev.EventID
		rec.DedupKey = fmt.Sprintf("attend_event:%s:%s", ev.MemberID, ev.EventID)

	case event.TypeReactToMessage:
		msg, err := s.engagement.FindMessage(ctx, ev.ChannelID, ev.MessageReactedTo)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				// Reacted-to message no longer exists; nothing to credit.
				zap.L().Warn("reacted-to message not found, skipping credit",
					zap.String("channel_id", ev.ChannelID),
					zap.String("message_id", ev.MessageReactedTo))
				return nil, false, nil
			}
			return nil, false, err
		}
		// Reactions on thread replies never earn points.
		if msg.IsThreadReply() {
			return nil, false, nil
		}
		if !s.allowSelf && msg.AuthorID == ev.MemberID {
			return nil, false, nil
		}
		rec.ChannelID = ev.ChannelID
		rec.MessageReactedTo = ev.MessageReactedTo
		rec.DedupKey = fmt.Sprintf("react_to_message:%s:%s:%s", ev.ChannelID, ev.MessageReactedTo, ev.MemberID)

	case event.TypeReplyToThread:
		if !s.allowSelf {
			root, err := s.engagement.FindMessage(ctx, ev.ChannelID, ev.ThreadRepliedTo)
			if err != nil && !errors.Is(err, apperror.ErrNotFound) {
				return nil, false, err
			}
			if err == nil && root.AuthorID == ev.MemberID {
				return nil, false, nil
			}
		}
		rec.ChannelID = ev.ChannelID
		rec.ThreadRepliedTo = ev.ThreadRepliedTo
		rec.DedupKey = fmt.Sprintf("reply_to_thread:%s:%s:%s", ev.ChannelID, ev.ThreadRepliedTo, ev.MemberID)

	case event.TypeRespondToSurvey:
		rec.SurveyRespondedTo = ev.SurveyRespondedTo
		rec.DedupKey = fmt.Sprintf("respond_to_survey:%s:%s", ev.MemberID, ev.SurveyRespondedTo)

	case event.TypeUpdateEducationHistory, event.TypeUpdateWorkHistory:
		if ev.Type == event.TypeUpdateWorkHistory {
			rec.WorkExperienceID = ev.WorkExperienceID
		}
		if def.Period != entity.PeriodQuarterly {
			rec.DedupKey = fmt.Sprintf("%s:%s", ev.Type, ev.MemberID)
			break
		}
		// Multiple edits within one quarter collapse into a single credit.
		// The existence check is the fast path; the quarter bucket inside the
		// dedup key closes the concurrent-edit race at the store level.
		start, end := period.QuarterWindow(ev.OccurredAt)
		exists, err := s.ledger.ExistsInWindow(ctx, ev.MemberID, string(ev.Type), start, end)
		if err != nil {
			return nil, false, err
		}
		if exists {
			return nil, false, nil
		}
		rec.DedupKey = fmt.Sprintf("%s:%s:%s", ev.Type, ev.MemberID, period.QuarterKey(ev.OccurredAt))

	case event.TypeJoinDirectory:
		rec.DedupKey = fmt.Sprintf("join_directory:%s", ev.MemberID)

	case event.TypeRenewMembership:
		rec.Year = ev.Year
		rec.DedupKey = fmt.Sprintf("renew_membership:%s:%d", ev.MemberID, ev.Year)

	default:
		return nil, false, fmt.Errorf("%w: %s", apperror.ErrUnsupportedType, ev.Type)
	}

	return rec, true, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/internal/event"
	catalogRepo "github.com/alumnihub/pointsledger/internal/modules/catalog/repository"
	engagementRepo "github.com/alumnihub/pointsledger/internal/modules/engagement/repository"
	ledgerRepo "github.com/alumnihub/pointsledger/internal/modules/ledger/repository"
	"github.com/alumnihub/pointsledger/internal/period"
	"github.com/alumnihub/pointsledger/pkg/apperror"
)

// RevokeService undoes a credit when its justification no longer holds.
// Idempotent: revoking something already revoked, or never granted, is a
// safe no-op. Before deleting, each guarded type re-checks the source data —
// if another qualifying condition remains (another reaction by the member on
// the message, another message in the thread, another profile entry in the
// quarter), the credit stays.
type RevokeService interface {
	Revoke(ctx context.Context, ev *event.ActivityCompletedUndo) error
}

type revokeService struct {
	catalog    catalogRepo.CatalogRepository
	ledger     ledgerRepo.LedgerRepository
	engagement engagementRepo.EngagementRepository
}

func NewRevokeService(
	catalog catalogRepo.CatalogRepository,
	ledger ledgerRepo.LedgerRepository,
	engagement engagementRepo.EngagementRepository,
) RevokeService {
	return &revokeService{
		catalog:    catalog,
		ledger:     ledger,
		engagement: engagement,
	}
}

func (s *revokeService) Revoke(ctx context.Context, ev *event.ActivityCompletedUndo) error {
	var (
		deleted int64
		err     error
	)

	switch ev.Type {
	case event.TypeReactToMessage:
		// Another identical reaction by this member still justifies the
		// credit. The source store already reflects the removal.
		remaining, cerr := s.engagement.CountMemberReactions(ctx, ev.ChannelID, ev.MessageReactedTo, ev.MemberID)
		if cerr != nil {
			return cerr
		}
		if remaining >= 1 {
			return nil
		}
		deleted, err = s.ledger.DeleteMatching(ctx, &entity.CompletionRecord{
			MemberID:         ev.MemberID,
			ActivityType:     string(ev.Type),
			ChannelID:        ev.ChannelID,
			MessageReactedTo: ev.MessageReactedTo,
		})

	case event.TypeReplyToThread:
		remaining, cerr := s.engagement.CountMemberThreadReplies(ctx, ev.ChannelID, ev.ThreadRepliedTo, ev.MemberID)
		if cerr != nil {
			return cerr
		}
		if remaining >= 1 {
			return nil
		}
		deleted, err = s.ledger.DeleteMatching(ctx, &entity.CompletionRecord{
			MemberID:        ev.MemberID,
			ActivityType:    string(ev.Type),
			ChannelID:       ev.ChannelID,
			ThreadRepliedTo: ev.ThreadRepliedTo,
		})

	case event.TypeUpdateEducationHistory, event.TypeUpdateWorkHistory:
		deleted, err = s.revokeProfileUpdate(ctx, ev)

	case event.TypeAttendEvent:
		deleted, err = s.ledger.DeleteMatching(ctx, &entity.CompletionRecord{
			MemberID:     ev.MemberID,
			ActivityType: string(ev.Type),
			EventID:      ev.EventID,
		})

	case event.TypeRespondToSurvey:
		deleted, err = s.ledger.DeleteMatching(ctx, &entity.CompletionRecord{
			MemberID:          ev.MemberID,
			ActivityType:      string(ev.Type),
			SurveyRespondedTo: ev.SurveyRespondedTo,
		})

	case event.TypeRenewMembership:
		deleted, err = s.ledger.DeleteMatching(ctx, &entity.CompletionRecord{
			MemberID:     ev.MemberID,
			ActivityType: string(ev.Type),
			Year:         ev.Year,
		})

	case event.TypeJoinDirectory:
		deleted, err = s.ledger.DeleteMatching(ctx, &entity.CompletionRecord{
			MemberID:     ev.MemberID,
			ActivityType: string(ev.Type),
		})

	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnsupportedType, ev.Type)
	}

	if err != nil {
		return err
	}
	if deleted > 0 {
		zap.L().Info("completion record revoked",
			zap.String("member_id", ev.MemberID.String()),
			zap.String("activity_type", string(ev.Type)),
			zap.Int64("rows", deleted))
	}
	// deleted == 0: already revoked or never granted; safe no-op.
	return nil
}

// revokeProfileUpdate handles the quarterly profile-section types: the credit
// stays as long as any record of the relevant kind created in the same
// quarter remains.
func (s *revokeService) revokeProfileUpdate(ctx context.Context, ev *event.ActivityCompletedUndo) (int64, error) {
	kind := entity.ProfileEntryEducation
	if ev.Type == event.TypeUpdateWorkHistory {
		kind = entity.ProfileEntryWork
	}

	quarterly := true
	def, err := s.catalog.FindByTypeUnscoped(ctx, ev.Type)
	if err != nil {
		if !errors.Is(err, apperror.ErrDefinitionNotFound) {
			return 0, err
		}
		// Definition gone entirely; these types have always been
		// quarter-scoped, so fall back to the type's known semantics.
	} else {
		quarterly = def.Period == entity.PeriodQuarterly
	}

	if !quarterly {
		return s.ledger.DeleteMatching(ctx, &entity.CompletionRecord{
			MemberID:     ev.MemberID,
			ActivityType: string(ev.Type),
		})
	}

	start, end := period.QuarterWindow(ev.OccurredAt)
	remaining, err := s.engagement.CountProfileEntriesInWindow(ctx, ev.MemberID, kind, start, end)
	if err != nil {
		return 0, err
	}
	if remaining >= 1 {
		return 0, nil
	}

	return s.ledger.DeleteInWindow(ctx, ev.MemberID, string(ev.Type), start, end)
}

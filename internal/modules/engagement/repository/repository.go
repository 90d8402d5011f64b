package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/pkg/apperror"
)

// EngagementRepository reads the collaborator-owned source data the engines
// consult: messages, reactions and profile entries. Undo events arrive after
// the source mutation, so these reads see the post-removal state.
type EngagementRepository interface {
	FindMessage(ctx context.Context, channelID, messageID string) (*entity.Message, error)
	CountMemberReactions(ctx context.Context, channelID, messageID string, memberID uuid.UUID) (int64, error)
	CountMemberThreadReplies(ctx context.Context, channelID, threadID string, memberID uuid.UUID) (int64, error)
	CountProfileEntriesInWindow(ctx context.Context, memberID uuid.UUID, kind entity.ProfileEntryKind, start, end time.Time) (int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) FindMessage(ctx context.Context, channelID, messageID string) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND message_id = ?", channelID, messageID).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *engagementRepository) CountMemberReactions(ctx context.Context, channelID, messageID string, memberID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
		Where("channel_id = ? AND message_id = ? AND member_id = ?", channelID, messageID, memberID).
		Count(&count).Error
	return count, err
}

func (r *engagementRepository) CountMemberThreadReplies(ctx context.Context, channelID, threadID string, memberID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("channel_id = ? AND thread_id = ? AND author_id = ? AND message_id <> thread_id",
			channelID, threadID, memberID).
		Count(&count).Error
	return count, err
}

func (r *engagementRepository) CountProfileEntriesInWindow(ctx context.Context, memberID uuid.UUID, kind entity.ProfileEntryKind, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProfileEntry{}).
		Where("member_id = ? AND kind = ? AND created_at >= ? AND created_at < ?",
			memberID, kind, start, end).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/pkg/apperror"
)

type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	// RecomputeCachedPoints resets every member's cached balance to the
	// ledger sum in a single statement. Idempotent and safe to run
	// concurrently with grants/revokes; the balance is eventually consistent.
	RecomputeCachedPoints(ctx context.Context) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) RecomputeCachedPoints(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE members
		SET cached_points = COALESCE((
			SELECT SUM(points)
			FROM completion_records
			WHERE completion_records.member_id = members.id
		), 0)`).Error
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alumnihub/pointsledger/internal/entity"
)

// MemberTotal is one row of the ranked aggregation: a member and their summed
// points inside the queried window.
type MemberTotal struct {
	MemberID    uuid.UUID `json:"member_id"`
	DisplayName string    `json:"display_name"`
	Points      int       `json:"points"`
}

type LedgerRepository interface {
	// Insert writes the record unless a row with the same dedup key already
	// exists. Returns false on conflict — a replayed event credits nothing
	// and raises no error.
	Insert(ctx context.Context, rec *entity.CompletionRecord) (bool, error)
	// ExistsInWindow reports whether the member already holds a credit of the
	// type with occurred_at inside [start, end).
	ExistsInWindow(ctx context.Context, memberID uuid.UUID, activityType string, start, end time.Time) (bool, error)
	// DeleteMatching removes rows matching the non-zero fields of conds
	// (member, type and linkage columns). Zero rows affected is a no-op.
	DeleteMatching(ctx context.Context, conds *entity.CompletionRecord) (int64, error)
	// DeleteInWindow removes the member's credit of the type with occurred_at
	// inside [start, end).
	DeleteInWindow(ctx context.Context, memberID uuid.UUID, activityType string, start, end time.Time) (int64, error)
	// MemberTotals sums points per member over the optional date window,
	// ordered by total descending, truncated to limit.
	MemberTotals(ctx context.Context, after, before *time.Time, limit int) ([]MemberTotal, error)
	// SumForMember totals the member's points, optionally since a date.
	SumForMember(ctx context.Context, memberID uuid.UUID, since *time.Time) (int, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Insert(ctx context.Context, rec *entity.CompletionRecord) (bool, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *ledgerRepository) ExistsInWindow(ctx context.Context, memberID uuid.UUID, activityType string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.CompletionRecord{}).
		Where("member_id = ? AND activity_type = ? AND occurred_at >= ? AND occurred_at < ?",
			memberID, activityType, start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *ledgerRepository) DeleteMatching(ctx context.Context, conds *entity.CompletionRecord) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(conds).
		Delete(&entity.CompletionRecord{})
	return res.RowsAffected, res.Error
}

func (r *ledgerRepository) DeleteInWindow(ctx context.Context, memberID uuid.UUID, activityType string, start, end time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND activity_type = ? AND occurred_at >= ? AND occurred_at < ?",
			memberID, activityType, start, end).
		Delete(&entity.CompletionRecord{})
	return res.RowsAffected, res.Error
}

func (r *ledgerRepository) MemberTotals(ctx context.Context, after, before *time.Time, limit int) ([]MemberTotal, error) {
	q := r.db.WithContext(ctx).
		Model(&entity.CompletionRecord{}).
		Select("completion_records.member_id, members.display_name, SUM(completion_records.points) AS points").
		Joins("LEFT JOIN members ON members.id = completion_records.member_id")

	if after != nil {
		q = q.Where("completion_records.occurred_at >= ?", *after)
	}
	if before != nil {
		q = q.Where("completion_records.occurred_at <= ?", *before)
	}

	var totals []MemberTotal
	err := q.Group("completion_records.member_id, members.display_name").
		Order("points DESC").
		Limit(limit).
		Scan(&totals).Error
	return totals, err
}

func (r *ledgerRepository) SumForMember(ctx context.Context, memberID uuid.UUID, since *time.Time) (int, error) {
	q := r.db.WithContext(ctx).
		Model(&entity.CompletionRecord{}).
		Select("COALESCE(SUM(points), 0)").
		Where("member_id = ?", memberID)

	if since != nil {
		q = q.Where("occurred_at >= ?", *since)
	}

	var total int
	err := q.Scan(&total).Error
	return total, err
}

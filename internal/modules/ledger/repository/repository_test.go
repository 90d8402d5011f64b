package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/internal/testutil"
)

func TestInsertDedupKeyConflictIsNoOp(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewLedgerRepository(db)
	member := uuid.New()

	rec := func() *entity.CompletionRecord {
		return &entity.CompletionRecord{
			MemberID:     member,
			ActivityType: "attend_event",
			Points:       10,
			DedupKey:     "attend_event:" + member.String() + ":E1",
			EventID:      "E1",
			OccurredAt:   time.Now(),
		}
	}

	inserted, err := repo.Insert(context.Background(), rec())
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(context.Background(), rec())
	require.NoError(t, err)
	assert.False(t, inserted, "conflicting insert must be a silent no-op")

	var count int64
	require.NoError(t, db.Model(&entity.CompletionRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestExistsInWindow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewLedgerRepository(db)
	member := uuid.New()

	occurred := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err := repo.Insert(context.Background(), &entity.CompletionRecord{
		MemberID:     member,
		ActivityType: "update_work_history",
		Points:       5,
		DedupKey:     "update_work_history:" + member.String() + ":2026Q2",
		OccurredAt:   occurred,
	})
	require.NoError(t, err)

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	exists, err := repo.ExistsInWindow(context.Background(), member, "update_work_history", start, end)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsInWindow(context.Background(), member, "update_work_history", end, end.AddDate(0, 3, 0))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsInWindow(context.Background(), member, "update_education_history", start, end)
	require.NoError(t, err)
	assert.False(t, exists, "window check is per activity type")
}

func TestDeleteMatchingZeroRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewLedgerRepository(db)

	deleted, err := repo.DeleteMatching(context.Background(), &entity.CompletionRecord{
		MemberID:     uuid.New(),
		ActivityType: "attend_event",
		EventID:      "E1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}

func TestMemberTotalsOrderingAndWindow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewLedgerRepository(db)

	alice, bob := uuid.New(), uuid.New()
	require.NoError(t, db.Create(&entity.Member{ID: alice, DisplayName: "alice"}).Error)
	require.NoError(t, db.Create(&entity.Member{ID: bob, DisplayName: "bob"}).Error)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, row := range []struct {
		member uuid.UUID
		points int
	}{
		{alice, 10},
		{alice, 5},
		{bob, 40},
	} {
		require.NoError(t, db.Create(&entity.CompletionRecord{
			ID:           uuid.New(),
			MemberID:     row.member,
			ActivityType: "attend_event",
			Points:       row.points,
			DedupKey:     uuid.NewString(),
			OccurredAt:   now.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	totals, err := repo.MemberTotals(context.Background(), nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, bob, totals[0].MemberID)
	assert.Equal(t, 40, totals[0].Points)
	assert.Equal(t, "bob", totals[0].DisplayName)
	assert.Equal(t, alice, totals[1].MemberID)
	assert.Equal(t, 15, totals[1].Points)
}

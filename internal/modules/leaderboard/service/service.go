package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	leaderboardDto "github.com/alumnihub/pointsledger/internal/modules/leaderboard/dto"
	ledgerRepo "github.com/alumnihub/pointsledger/internal/modules/ledger/repository"
)

type LeaderboardService interface {
	// Rank returns the top members by summed points over the optional date
	// window, with competition ranks and the requester's row flagged.
	Rank(ctx context.Context, limit int, occurredAfter, occurredBefore *time.Time, requester uuid.UUID) ([]leaderboardDto.Entry, error)
	// MemberPoints totals one member's points, optionally since a date.
	MemberPoints(ctx context.Context, memberID uuid.UUID, since *time.Time) (int, error)
}

type leaderboardService struct {
	ledger      ledgerRepo.LedgerRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
}

// NewLeaderboardService builds the read-side ranking service. redisClient may
// be nil; caching is then skipped entirely.
func NewLeaderboardService(ledger ledgerRepo.LedgerRepository, redisClient *redis.Client, cacheTTL time.Duration) LeaderboardService {
	return &leaderboardService{
		ledger:      ledger,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (s *leaderboardService) Rank(ctx context.Context, limit int, occurredAfter, occurredBefore *time.Time, requester uuid.UUID) ([]leaderboardDto.Entry, error) {
	entries, ok := s.cachedEntries(ctx, limit, occurredAfter, occurredBefore)
	if !ok {
		totals, err := s.ledger.MemberTotals(ctx, occurredAfter, occurredBefore, limit)
		if err != nil {
			return nil, err
		}
		entries = assignRanks(totals)
		s.storeEntries(ctx, limit, occurredAfter, occurredBefore, entries)
	}

	// The requester flag is per-caller, applied after the shared cache.
	for i := range entries {
		entries[i].IsRequester = entries[i].MemberID == requester
	}

	return entries, nil
}

func (s *leaderboardService) MemberPoints(ctx context.Context, memberID uuid.UUID, since *time.Time) (int, error) {
	return s.ledger.SumForMember(ctx, memberID, since)
}

func cacheKey(limit int, after, before *time.Time) string {
	afterKey, beforeKey := "-", "-"
	if after != nil {
		afterKey = after.UTC().Format(time.RFC3339)
	}
	if before != nil {
		beforeKey = before.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("leaderboard:%d:%s:%s", limit, afterKey, beforeKey)
}

func (s *leaderboardService) cachedEntries(ctx context.Context, limit int, after, before *time.Time) ([]leaderboardDto.Entry, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	raw, err := s.redisClient.Get(ctx, cacheKey(limit, after, before)).Bytes()
	if err != nil {
		return nil, false
	}

	var entries []leaderboardDto.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *leaderboardService) storeEntries(ctx context.Context, limit int, after, before *time.Time, entries []leaderboardDto.Entry) {
	if s.redisClient == nil {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := s.redisClient.Set(ctx, cacheKey(limit, after, before), raw, s.cacheTTL).Err(); err != nil {
		// Cache miss next time; data stays correct in the ledger.
		zap.L().Debug("leaderboard cache write failed", zap.Error(err))
	}
}

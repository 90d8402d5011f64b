package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	memberRepo "github.com/alumnihub/pointsledger/internal/modules/member/repository"
)

// BalanceService maintains the denormalized member point balance. The ledger
// stays authoritative; this job only refreshes the cached projection so
// member reads stay cheap.
type BalanceService interface {
	Recompute(ctx context.Context) error
	// StartRecomputeWorker refreshes balances on a fixed interval until ctx
	// is cancelled.
	StartRecomputeWorker(ctx context.Context, interval time.Duration)
}

type balanceService struct {
	members memberRepo.MemberRepository
}

func NewBalanceService(members memberRepo.MemberRepository) BalanceService {
	return &balanceService{members: members}
}

func (s *balanceService) Recompute(ctx context.Context) error {
	return s.members.RecomputeCachedPoints(ctx)
}

func (s *balanceService) StartRecomputeWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Recompute(ctx); err != nil {
				zap.L().Error("balance recompute failed", zap.Error(err))
			} else {
				zap.L().Debug("balance recompute completed")
			}
		}
	}
}

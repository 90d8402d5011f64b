package main

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/alumnihub/pointsledger/internal/bootstrap"
	"github.com/alumnihub/pointsledger/internal/config"
	balanceService "github.com/alumnihub/pointsledger/internal/modules/balance/service"
	catalogRepo "github.com/alumnihub/pointsledger/internal/modules/catalog/repository"
	engagementRepo "github.com/alumnihub/pointsledger/internal/modules/engagement/repository"
	grantQueue "github.com/alumnihub/pointsledger/internal/modules/grant/delivery/queue"
	grantService "github.com/alumnihub/pointsledger/internal/modules/grant/service"
	ledgerRepo "github.com/alumnihub/pointsledger/internal/modules/ledger/repository"
	memberRepo "github.com/alumnihub/pointsledger/internal/modules/member/repository"
	notifService "github.com/alumnihub/pointsledger/internal/modules/notification/service"
	revokeQueue "github.com/alumnihub/pointsledger/internal/modules/revoke/delivery/queue"
	revokeService "github.com/alumnihub/pointsledger/internal/modules/revoke/service"
	"github.com/alumnihub/pointsledger/pkg/database"
	"github.com/alumnihub/pointsledger/pkg/logger"
)

// The worker consumes "activity completed" / "activity completed undone"
// events from the external delivery queue. Each invocation is an independent
// unit of work; correctness under concurrency and replay comes from the
// store-level uniqueness constraint and conditional deletes, not from any
// in-process locking.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.Init(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		zap.L().Fatal("migration failed", zap.Error(err))
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	client := asynq.NewClient(redisOpt)
	defer client.Close()

	catalogRepository := catalogRepo.NewCatalogRepository(db)
	ledgerRepository := ledgerRepo.NewLedgerRepository(db)
	engagementRepository := engagementRepo.NewEngagementRepository(db)
	memberRepository := memberRepo.NewMemberRepository(db)

	notificationSvc := notifService.NewNotificationService(memberRepository, notifService.NewQueueMessenger(client))
	grantSvc := grantService.NewGrantService(catalogRepository, ledgerRepository, engagementRepository, notificationSvc, cfg.AllowSelfActions)
	revokeSvc := revokeService.NewRevokeService(catalogRepository, ledgerRepository, engagementRepository)

	balanceSvc := balanceService.NewBalanceService(memberRepository)
	go balanceSvc.StartRecomputeWorker(context.Background(), cfg.RecomputeInterval)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues: map[string]int{
			"default": 5,
			"low":     2,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			zap.L().Error("task failed",
				zap.String("task_type", task.Type()),
				zap.Error(err))
		}),
	})

	// Task-type -> handler registry, resolved once at startup.
	mux := asynq.NewServeMux()
	mux.HandleFunc(grantQueue.TaskActivityCompleted, grantQueue.NewHandler(grantSvc).HandleActivityCompleted)
	mux.HandleFunc(revokeQueue.TaskActivityCompletedUndone, revokeQueue.NewHandler(revokeSvc).HandleActivityCompletedUndone)

	zap.L().Info("points ledger worker started", zap.Int("concurrency", cfg.WorkerConcurrency))
	if err := srv.Run(mux); err != nil {
		zap.L().Fatal("worker stopped", zap.Error(err))
	}
}

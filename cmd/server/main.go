package main

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alumnihub/pointsledger/internal/bootstrap"
	"github.com/alumnihub/pointsledger/internal/config"
	"github.com/alumnihub/pointsledger/internal/server"
	"github.com/alumnihub/pointsledger/pkg/database"
	"github.com/alumnihub/pointsledger/pkg/logger"
)

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

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedActivityDefinitions(db); err != nil {
			zap.L().Fatal("failed to seed activity definitions", zap.Error(err))
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	srv := server.NewServer(cfg, db, redisClient)

	zap.L().Info("points ledger API listening", zap.String("port", cfg.Port))
	if err := srv.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

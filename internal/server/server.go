package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/alumnihub/pointsledger/internal/config"
	leaderboardHttp "github.com/alumnihub/pointsledger/internal/modules/leaderboard/delivery/http"
	leaderboardService "github.com/alumnihub/pointsledger/internal/modules/leaderboard/service"
	ledgerRepo "github.com/alumnihub/pointsledger/internal/modules/ledger/repository"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer wires the read-side query surface: the ranked leaderboard and the
// member points total. Grants and revokes run in the queue worker, not here.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	ledgerRepository := ledgerRepo.NewLedgerRepository(db)

	leaderboardSvc := leaderboardService.NewLeaderboardService(ledgerRepository, redisClient, cfg.LeaderboardCacheTTL)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	api := router.Group("/api")
	{
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/members/:id/points", leaderboardHandler.GetMemberPoints)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Member-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"solvetrack/internal/config"
	"solvetrack/internal/handler"
	"solvetrack/internal/middleware"
	"solvetrack/internal/namegen"
	"solvetrack/internal/repository"
	"solvetrack/internal/service"
)

type Server struct {
	engine      *gin.Engine
	leaderboard service.LeaderboardService
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	accountRepo := repository.NewAccountRepository(db)

	reservationSvc := service.NewReservationService(accountRepo)
	leaderboardSvc := service.NewLeaderboardService(accountRepo, redisClient, cfg.AppID)
	ledgerSvc := service.NewLedgerService(accountRepo, leaderboardSvc)
	profileSvc := service.NewProfileService(accountRepo)
	statSvc := service.NewStatService(accountRepo)

	nameSource := func() namegen.Source {
		return namegen.NewRandomIdentity(cfg.NameAPIBaseURL, cfg.NameAPITimeout)
	}

	authSvc := service.NewAuthService(
		accountRepo,
		reservationSvc,
		leaderboardSvc,
		redisClient,
		nameSource,
		cfg.JWTSecret,
		cfg.JWTTTL,
		cfg.ResetTokenTTL,
		cfg.AppID,
	)

	authHandler := handler.NewAuthHandler(authSvc, redisClient, cfg.AppID, cfg.RateLimitSignup)
	profileHandler := handler.NewProfileHandler(profileSvc)
	progressHandler := handler.NewProgressHandler(ledgerSvc)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)
	statHandler := handler.NewStatHandler(statSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/password-reset", authHandler.RequestPasswordReset)
		auth.POST("/password-reset/confirm", authHandler.ResetPassword)
	}

	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.GET("/profile/:name", profileHandler.GetProfileByDisplayName)
		protected.POST("/progress", progressHandler.AdjustProgress)
		protected.GET("/stats", statHandler.GetStats)
		protected.DELETE("/account", authHandler.DeleteAccount)
		protected.GET("/leaderboard/ws", leaderboardHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		leaderboard: leaderboardSvc,
	}
}

func (s *Server) Run(addr string) error {
	defer s.leaderboard.Close()
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
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

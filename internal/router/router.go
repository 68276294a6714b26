package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/config"
	"github.com/zhanma666/evil-cook-project/internal/api"
	"github.com/zhanma666/evil-cook-project/internal/middleware"
)

// SetupRouter builds the engine with the global middleware chain, the root
// and health endpoints, and every API route under /api. redisClient may be
// nil, in which case rate limits are kept in process.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger, services api.Services, redisClient *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.FrontendURL),
		middleware.BodyLimit(middleware.MaxBodyBytes),
		middleware.ErrorHandler(logger, cfg.IsProduction()),
	)

	router.GET("/", api.Root)
	router.GET("/health", api.HealthCheck(db))

	apiLimiter := middleware.NewLimiter(redisClient, middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimitMax,
		KeyPrefix: "rate_limit:api",
	})
	authLimiter := middleware.NewLimiter(redisClient, middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.AuthRateLimitMax,
		KeyPrefix: "rate_limit:auth",
	})

	group := router.Group("/api")
	group.Use(middleware.RateLimit(apiLimiter, logger))

	api.SetupAPI(group, services, cfg.IsProduction(), middleware.RateLimit(authLimiter, logger))

	return router
}

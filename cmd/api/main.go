package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/zhanma666/evil-cook-project/config"
	"github.com/zhanma666/evil-cook-project/internal/api"
	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/logging"
	"github.com/zhanma666/evil-cook-project/internal/router"
	"github.com/zhanma666/evil-cook-project/internal/server"
	"github.com/zhanma666/evil-cook-project/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg, logger)
		if err != nil {
			logger.Warn("redis unavailable, rate limits are kept in process", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	services := api.Services{
		Auth:        service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		Users:       service.NewUserService(db),
		Recipes:     service.NewRecipeService(db),
		Interaction: service.NewInteractionService(db),
		Comments:    service.NewCommentService(db),
	}

	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			logger.Warn("object storage disabled", "error", err)
		} else {
			services.Storage = service.NewStorageService(s3cfg)
			logger.Info("presigned uploads enabled", "bucket", s3cfg.BucketName)
		}
	}

	handler := router.SetupRouter(cfg, db, logger, services, redisClient)
	return server.New(cfg.Addr(), handler, logger).Run(ctx)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/config"
	"github.com/zukunftsstadt/contest-api/internal/database"
	"github.com/zukunftsstadt/contest-api/internal/fetcher"
	"github.com/zukunftsstadt/contest-api/internal/handler"
	"github.com/zukunftsstadt/contest-api/internal/middleware"
	"github.com/zukunftsstadt/contest-api/internal/repository"
	"github.com/zukunftsstadt/contest-api/internal/router"
	"github.com/zukunftsstadt/contest-api/internal/service"
	"github.com/zukunftsstadt/contest-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	generator, err := ai.NewOpenAIGenerator(ai.GeneratorConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.GenerationModel,
		Size:    cfg.ImageSize,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create image generator: %v", err)
	}

	judge, err := ai.NewOpenAIJudge(ai.JudgeConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.JudgeModel,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create image judge: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	imageFetcher := fetcher.NewHTTPFetcher(cfg.FetchTimeout, logger)
	submissionRepo := repository.NewCSVSubmissionRepository(cfg.DataFile, logger)

	leaderboardService := service.NewLeaderboardService(submissionRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	galleryService := service.NewGalleryService(submissionRepo, logger)
	contestService := service.NewContestService(submissionRepo, generator, judge, imageFetcher, validate, leaderboardService, service.ContestTimeouts{
		Generation: cfg.GenerationTimeout,
		Fetch:      cfg.FetchTimeout,
		Judge:      cfg.JudgeTimeout,
		SessionTTL: cfg.SessionTTL,
	}, logger)

	contestHandler := handler.NewContestHandler(contestService, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, logger)
	galleryHandler := handler.NewGalleryHandler(galleryService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    8 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ContestHandler:     contestHandler,
		LeaderboardHandler: leaderboardHandler,
		GalleryHandler:     galleryHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

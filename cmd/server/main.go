package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/abhikumar45444/movie-night-decider/internal/client"
	"github.com/abhikumar45444/movie-night-decider/internal/config"
	"github.com/abhikumar45444/movie-night-decider/internal/database"
	"github.com/abhikumar45444/movie-night-decider/internal/handler"
	"github.com/abhikumar45444/movie-night-decider/internal/job"
	"github.com/abhikumar45444/movie-night-decider/internal/metrics"
	"github.com/abhikumar45444/movie-night-decider/internal/repository"
	"github.com/abhikumar45444/movie-night-decider/internal/router"
	"github.com/abhikumar45444/movie-night-decider/internal/service"
	"github.com/abhikumar45444/movie-night-decider/internal/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Server.Env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient := database.NewRedis(cfg.Redis.URL, logger)

	m := metrics.New(logger)

	hub := websocket.NewHub(logger)

	collector := metrics.NewCollector(db, m, hub, logger, 15*time.Second)
	collector.Start()
	defer collector.Stop()

	catalog := client.NewTMDBClient(&cfg.Catalog, logger, m)

	roomRepo := repository.NewRoomRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	roomService := service.NewRoomService(
		roomRepo, matchRepo, catalog, hub, redisClient, m, logger,
		cfg.Catalog.MoviesPerRoom,
	)

	roomHandler := handler.NewRoomHandler(roomService, logger)
	voteHandler := handler.NewVoteHandler(roomService, logger)
	wsHandler := handler.NewWebSocketHandler(hub, roomService, cfg.Server.CORSOriginList(), logger)
	healthHandler := handler.NewHealthHandler(db)

	retention := job.NewRetentionJob(db, cfg.Retention.MaxAge, cfg.Retention.Schedule, logger)
	if err := retention.Start(); err != nil {
		logger.Fatal("Failed to start retention job", zap.Error(err))
	}
	defer retention.Stop()

	r := router.Setup(cfg, roomHandler, voteHandler, wsHandler, healthHandler, m, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

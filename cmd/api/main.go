// Command api runs the songs REST API.
//
//	@title			Songs API
//	@version		1.0
//	@description	REST API for a song catalog with JWT authentication and role/ownership authorization.
//	@BasePath		/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wperaltaarriaga/songs-api/internal/api"
	"github.com/wperaltaarriaga/songs-api/internal/core/service"
	"github.com/wperaltaarriaga/songs-api/internal/infrastructure/config"
	mongodb "github.com/wperaltaarriaga/songs-api/internal/infrastructure/db/mongo"
	redisdb "github.com/wperaltaarriaga/songs-api/internal/infrastructure/db/redis"
	"github.com/wperaltaarriaga/songs-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be configured")
	}

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	songRepo := mongodb.NewSongRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := songRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("song indexes failed")
	}

	// --- Redis (report cache; the API runs without it) ---
	deps := api.Deps{
		UserRepo:       userRepo,
		SongRepo:       songRepo,
		Tokens:         service.NewTokenService(cfg.JWTSecret, 24*time.Hour),
		BlockedDomains: cfg.BlockedEmailDomains,
		MongoDB:        db,
		Registry:       prometheus.NewRegistry(),
		Logger:         log,
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, report caching disabled")
	} else {
		defer rdb.Close()
		deps.Redis = rdb
		deps.Cache = redisdb.NewReportCache(rdb)
	}

	e := api.NewRouter(deps)

	// --- Serve with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

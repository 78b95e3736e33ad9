package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/weather-chat/internal/chat"
	"github.com/dileep-u-k/weather-chat/internal/llm"
	"github.com/dileep-u-k/weather-chat/internal/logging"
	"github.com/dileep-u-k/weather-chat/internal/tools"
	"github.com/dileep-u-k/weather-chat/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// main is the composition root: it loads configuration, builds the weather
// client, tool registry and model client, and serves HTTP until signalled.
func main() {
	cfg, err := LoadConfig()
	if err != nil {
		boot := logging.New("info", false)
		boot.Fatal().Err(err).Msg("configuration error")
	}

	release := cfg.GinMode == gin.ReleaseMode
	logger := logging.New(cfg.LogLevel, release)
	buildInfo := GetBuildInfo()
	logger.Info().EmbedObject(buildInfo).Msg("starting weather chat server")
	if !cfg.DotenvLoaded && !release {
		logger.Warn().Msg("no .env file found, relying on the environment")
	}
	if cfg.TuningLoaded {
		logger.Info().Str("file", cfg.ConfigFile).Msg("tuning file loaded")
	}

	ctx := context.Background()

	cache, closeCache, err := initializeCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not initialize weather cache")
	}
	defer closeCache()

	weatherClient, err := weather.NewClient(cfg.weatherConfig(), cache, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not create weather client")
	}
	registry, err := tools.NewRegistry(weatherClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not create tool registry")
	}
	logger.Info().Int("tools", registry.ToolCount()).Msg("tool registry initialized")

	model, err := llm.NewGeminiClient(ctx, cfg.geminiConfig(), registry.Declarations(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not create model client")
	}
	defer model.Close()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	engine, err := newRouter(logger, chat.NewHandler(model, registry, logger), buildInfo)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not build router")
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv, logger)
}

// initializeCache picks Redis when REDIS_ADDR is set and an in-process map otherwise.
func initializeCache(ctx context.Context, cfg *AppConfig, logger zerolog.Logger) (weather.Cache, func(), error) {
	ttl := cfg.Tuning.Weather.CacheTTL
	if cfg.RedisAddr == "" {
		logger.Info().Dur("ttl", ttl).Msg("using in-memory weather cache")
		return weather.NewMemoryCache(ttl), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", ttl).Msg("using Redis weather cache")
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing Redis client")
		}
	}
	return weather.NewRedisCache(rdb, ttl, logger), closeFn, nil
}

// runServerWithGracefulShutdown serves until SIGINT/SIGTERM, then drains.
func runServerWithGracefulShutdown(srv *http.Server, logger zerolog.Logger) {
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server is listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return
	}
	logger.Info().Msg("server exited gracefully")
}

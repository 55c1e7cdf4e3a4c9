package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kalaniocean/restaurant-reservation/internal/config"
	"github.com/kalaniocean/restaurant-reservation/internal/database"
	"github.com/kalaniocean/restaurant-reservation/internal/handler"
	"github.com/kalaniocean/restaurant-reservation/internal/middleware"
	"github.com/kalaniocean/restaurant-reservation/internal/queue"
	"github.com/kalaniocean/restaurant-reservation/internal/repository"
	"github.com/kalaniocean/restaurant-reservation/internal/router"
	"github.com/kalaniocean/restaurant-reservation/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}
	cancel()

	// Redis is optional: without it the cache and rate limiter switch off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, response cache and rate limiting disabled")
	}

	reservations := repository.NewReservationRepo(db)
	tables := repository.NewTableRepo(db)
	events := service.NewEventPublisher(cfg.AMQPURL, logger)

	rh := handler.NewReservationHandler(reservations, events, logger)
	th := handler.NewTableHandler(tables, reservations, events, logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = router.ErrorHandler(logger)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb, logger))

	cacheGET := middleware.ResponseCache(config.LoadCacheConfig(), rdb, logger)
	router.Register(e, rh, th, cacheGET)

	// Background consumer writes the reservation event log.
	go queue.StartReservationConsumer(cfg.AMQPURL, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds a production logger, switching to the human-friendly
// development config outside prod.
func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

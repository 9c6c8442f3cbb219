package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"auctionhouse/docs"
	"auctionhouse/internal/auth"
	"auctionhouse/internal/cache"
	"auctionhouse/internal/config"
	"auctionhouse/internal/db"
	"auctionhouse/internal/handler"
	"auctionhouse/internal/logger"
	"auctionhouse/internal/repository"
	"auctionhouse/internal/router"
	"auctionhouse/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Auction House API
// @version 1.0
// @description Timed auctions with strictly increasing bids and a soft-close extension.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.WithError(err).Fatal("database migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	auctionRepo := repository.NewAuctionRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	bidLogRepo := repository.NewBidLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	recorder := service.NewBidRecorder(bidLogRepo)
	defer recorder.Close()
	auctionService := service.NewAuctionService(auctionRepo, userRepo, bidLogRepo, recorder, cacheClient, cfg.ListCacheTTL)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		handler.NewAuctionHandler(auctionService),
		handler.NewAuthHandler(tokenStore),
		jwtService,
		tokenStore,
	)

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		docs.SwaggerInfo.Host = host
	}
	log.WithField("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").Info("swagger documentation available")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).Info("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}

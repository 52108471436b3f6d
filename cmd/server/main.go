package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"casabook/server/config"
	"casabook/server/internal/api"
	"casabook/server/internal/booking"
	"casabook/server/internal/cms"
	"casabook/server/internal/geocoding"
	"casabook/server/internal/ledger"
	"casabook/server/internal/payments"
	"casabook/server/internal/payouts"
	"casabook/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Ledger.Path), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create ledger directory")
	}
	book, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open transfer ledger")
	}
	logger.Infof("Using transfer ledger at: %s", cfg.Ledger.Path)

	cmsClient := cms.NewClient(cfg.CMS.BaseURL, cfg.CMS.AdminToken, logger)
	provider := payments.NewStripeProvider(cfg.Stripe.SecretKey, logger)

	bookingService := booking.NewService(cmsClient, provider, cfg.Payout.FeeRate, cfg.Stripe.Currency, logger)
	payoutProcessor := payouts.NewProcessor(cmsClient, provider, book,
		cfg.Payout.FeeRate, cfg.Stripe.Currency, cfg.Payout.HoldHours, logger)

	var geocoder api.Geocoder
	if cfg.Geocoding.Enabled {
		cacheDir := cfg.Geocoding.CacheDir
		if cacheDir == "" {
			cacheDir = filepath.Join(os.TempDir(), "casabook", "geocode_cache")
		}
		geocoder = geocoding.NewGeocoder(logger, cacheDir)
	}

	verifier := api.NewTokenVerifier(cfg.CMS.JWTSecret)
	handler := api.NewHandler(cmsClient, bookingService, payoutProcessor, provider,
		geocoder, verifier, cfg.Payout.FeeRate, cfg.Stripe.Currency, logger)

	payoutScheduler := scheduler.NewScheduler(payoutProcessor,
		time.Duration(cfg.Payout.ScanIntervalMinutes)*time.Minute, logger)
	payoutScheduler.Start()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	payoutScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
}

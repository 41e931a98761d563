package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/config"
	"ecomstore/internal/logger"
	"ecomstore/internal/models"
	"ecomstore/internal/payment"
	"ecomstore/internal/router"
	"ecomstore/internal/services"
	"ecomstore/internal/storage"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel)
	log.Info().Str("api", cfg.APIBaseURL).Msg("Starting storefront console")

	ctx := context.Background()

	store, closer, err := storage.Open(ctx, storage.Options{
		Driver:   cfg.StorageDriver,
		Path:     cfg.StoragePath,
		RedisURL: cfg.RedisURL,
		DBUrl:    cfg.DBUrl,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Could not open session storage")
	}
	defer closer.Close()

	api, err := apiclient.New(cfg.APIBaseURL, store, log, apiclient.WithTimeout(cfg.APITimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid API base URL")
	}

	auth := services.NewAuthStore(api, store, log)
	api.SetUnauthorizedHandler(auth.Logout)

	cart := services.NewCartStore(api, auth, log, services.WithRetry(services.DefaultRetryConfig()))
	auth.Subscribe(cart.OnAuthChange)

	if err := auth.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not restore the previous session")
	}

	orders := services.NewOrderService(api, log)

	payments := payment.NewProcessor(log)
	payments.Register(models.PaymentCashOnDelivery, payment.CashOnDelivery{})
	payments.Register(models.PaymentRazorpay, payment.NewSimulatedGateway(models.PaymentRazorpay, cfg.PaymentDelay, cfg.PaymentSuccessRate))

	r := router.SetupRouter(cfg, router.Dependencies{
		Auth:          auth,
		Cart:          cart,
		Catalog:       services.NewCatalogService(api, log),
		Categories:    services.NewCategoryService(api),
		Orders:        orders,
		Admin:         services.NewAdminService(api, log),
		Notifications: services.NewNotificationService(api),
		Checkout:      services.NewCheckoutService(auth, cart, orders, log),
		Payments:      payments,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + cfg.PaymentDelay + 15*time.Second,
	}

	go func() {
		log.Info().Msgf("Console listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

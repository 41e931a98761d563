package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecomstore/internal/config"
	"ecomstore/internal/logger"
	"ecomstore/internal/mockapi"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel)

	srv := mockapi.NewServer(cfg.JWTSecret, log)
	if err := srv.SeedDemo(); err != nil {
		log.Fatal().Err(err).Msg("Could not seed demo data")
	}
	log.Info().
		Str("admin", mockapi.DemoAdminEmail).
		Str("customer", mockapi.DemoCustomerEmail).
		Msg("Demo accounts ready")

	server := &http.Server{
		Addr:    ":" + cfg.MockAPIPort,
		Handler: srv.Router(),
	}

	go func() {
		log.Info().Msgf("Mock backend listening on port %s", cfg.MockAPIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Mock backend stopped")
}

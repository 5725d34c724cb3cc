package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/parcelmesh/ups-adapter/internal/api"
	"github.com/parcelmesh/ups-adapter/internal/publisher"
	"github.com/parcelmesh/ups-adapter/internal/rate"
	"github.com/parcelmesh/ups-adapter/internal/ups"
	"github.com/parcelmesh/ups-adapter/pkg/config"
	"github.com/parcelmesh/ups-adapter/pkg/logger"
	"github.com/parcelmesh/ups-adapter/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [ups-adapter]...")

	if err := cfg.Validate(); err != nil {
		logg.Fatalw("invalid configuration", "error", err)
	}
	logg.Infow("ups configuration loaded",
		"base_url", cfg.UPSBaseURL,
		"sandbox", cfg.Sandbox,
		"client_id", utils.MaskSecret(cfg.UPSClientID),
		"account", utils.MaskSecret(cfg.UPSAccountNumber),
		"supported_countries", cfg.SupportedCountries)

	// --- Optional NATS publisher ---
	var pub *publisher.Publisher
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		pub, err = publisher.New(logg.Desugar(), nc, cfg.ServiceName)
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
	} else {
		logg.Info("NATS_URL not set, event publishing disabled")
	}

	// --- Rate limiter ---
	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})

	// --- UPS token coordinator + HTTP client ---
	tokens := ups.NewTokenCoordinator(logg.Desugar(), cfg)
	upsClient := ups.NewClient(logg.Desugar(), rateMgr, cfg)

	// --- UPS rating service ---
	upsSvc := ups.NewService(logg.Desugar(), *cfg, upsClient, tokens, pub)

	// --- Fiber HTTP server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	handler := api.NewRatesHandler(logg.Desugar(), upsSvc)
	api.RegisterRoutes(app, handler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[ups-adapter] running",
		"env", cfg.Env,
		"port", cfg.Port,
		"events", pub != nil)

	<-ctx.Done()
	logg.Info("shutting down [ups-adapter]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if pub != nil {
		pub.Close()
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kitewatch/kitespot-aggregation/internal/aggregator"
	"github.com/kitewatch/kitespot-aggregation/internal/analysis"
	httpapi "github.com/kitewatch/kitespot-aggregation/internal/api/http"
	"github.com/kitewatch/kitespot-aggregation/internal/conditions"
	"github.com/kitewatch/kitespot-aggregation/internal/config"
	"github.com/kitewatch/kitespot-aggregation/internal/forecast"
	"github.com/kitewatch/kitespot-aggregation/internal/registry"
	"github.com/kitewatch/kitespot-aggregation/internal/scheduler"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The spot catalog is the one startup-fatal dependency: serving with
	// zero spots is not a meaningfully degraded mode.
	reg, err := registry.Load()
	if err != nil {
		log.Fatalf("failed to load spot registry: %v", err)
	}
	log.Printf("registry loaded: %d spots across %d countries", reg.Count(), reg.CountDistinctCountries())

	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Live-condition strategies: station primaries plus a coordinate-based
	// fallback covering every spot.
	dispatcher := conditions.NewDispatcher(
		conditions.NewIMGWStrategy(httpClient),
		conditions.NewKadynyStrategy(httpClient, "https://wiatrkadyny.pl/current.txt"),
		conditions.NewOpenMeteoStrategy(httpClient, reg),
	)
	if err := dispatcher.Validate(reg.IDs()); err != nil {
		log.Fatalf("invalid strategy configuration: %v", err)
	}

	forecastClient := forecast.NewClient(httpClient)

	var analysisClient aggregator.AnalysisClient
	if cfg.AnalysisEnabled {
		analysisClient = analysis.NewClient(cfg.OpenAIAPIKey)
	}

	// The aggregation engine owns the caches and the refresh cycles.
	engine := aggregator.New(reg, forecastClient, dispatcher, analysisClient, aggregator.Config{
		AnalysisEnabled: cfg.AnalysisEnabled,
		FetchTimeout:    cfg.FetchTimeout,
	})

	sched := scheduler.New(engine, scheduler.Intervals{
		Forecast:   cfg.ForecastInterval,
		Conditions: cfg.ConditionsInterval,
		Analysis:   cfg.AnalysisInterval,
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "kitespot-aggregation",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "kitespot-aggregation",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, engine)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

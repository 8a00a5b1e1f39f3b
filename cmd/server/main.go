package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/CarlyGallagher/christmas-planner/config"
	httpDelivery "github.com/CarlyGallagher/christmas-planner/internal/delivery/http"
	"github.com/CarlyGallagher/christmas-planner/internal/domain"
	"github.com/CarlyGallagher/christmas-planner/internal/infrastructure/cache"
	"github.com/CarlyGallagher/christmas-planner/internal/infrastructure/linkpreview"
	"github.com/CarlyGallagher/christmas-planner/internal/infrastructure/nager"
	"github.com/CarlyGallagher/christmas-planner/internal/infrastructure/webpage"
	"github.com/CarlyGallagher/christmas-planner/internal/logging"
	"github.com/CarlyGallagher/christmas-planner/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	format := cfg.Log.Format
	if cfg.Server.Environment == "production" {
		format = "json"
	}
	if err := logging.Setup(cfg.Log.Level, format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting Christmas Planner backend v1.0.0")

	// Initialize infrastructure dependencies
	fetcher := webpage.NewClient(cfg.Fetch.UserAgent, cfg.Fetch.Timeout)

	var preview domain.LinkPreviewClient
	if cfg.LinkPreview.Enabled {
		preview = linkpreview.NewClient(
			cfg.LinkPreview.BaseURL,
			cfg.LinkPreview.APIKey,
			cfg.Fetch.UserAgent,
			cfg.LinkPreview.RequestsPerHour,
		)
		log.Info().
			Str("base_url", cfg.LinkPreview.BaseURL).
			Bool("api_key", cfg.LinkPreview.APIKey != "").
			Int("requests_per_hour", cfg.LinkPreview.RequestsPerHour).
			Msg("link preview enabled")
	}

	holidayClient := nager.NewClient(cfg.Holidays.BaseURL, cfg.Fetch.UserAgent)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		holidayClient.SetDebug(true)
	}

	holidayCache := cache.NewMemoryCache[int, []domain.Holiday]()

	// Initialize usecase layer
	productService := usecase.NewProductService(fetcher, preview)
	holidayService := usecase.NewHolidayService(
		holidayClient,
		holidayCache,
		usecase.HolidayServiceConfig{CountryCode: cfg.Holidays.CountryCode},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(productService, holidayService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/config"
	httpserver "github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/http"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/dashboard"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/geo"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/openweather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger.InitLogger()
	defer logger.Close()
	sugar := logger.GetLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	weather := openweather.NewClient(openweather.Options{
		BaseURL:        cfg.BaseURL,
		APIKey:         cfg.APIKey,
		HTTPClient:     &http.Client{},
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      cfg.RateLimitRPS,
		Burst:          cfg.RateLimitBurst,
	})

	var locator geo.Locator
	if cfg.GeoEnabled {
		locator = geo.NewCachingLocator(&geo.IPLocator{URL: cfg.GeoURL}, cfg.GeoMaxAge, cfg.GeoTimeout)
	}

	controller := dashboard.NewController(dashboard.Options{
		Source:       weather,
		Locator:      locator,
		FallbackCity: cfg.FallbackCity,
		Unit:         cfg.DefaultUnits,
	})

	srv := httpserver.New(cfg, httpserver.Deps{Controller: controller, Weather: weather})
	sugar.Infow("Weather dashboard listening",
		"addr", cfg.ListenAddr(),
		"api_key", logger.MaskAPIKey(cfg.APIKey),
		"units", cfg.DefaultUnits,
		"fallback_city", cfg.FallbackCity,
		"geo_enabled", cfg.GeoEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		sugar.Fatalw("Server error", "error", err)
	}
}

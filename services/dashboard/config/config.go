package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
)

const defaultConfigFile = "dashboard.yaml"

// Config holds settings for the dashboard service. Values come from defaults, then
// an optional YAML file, then environment variables (optionally .env).
type Config struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	IconBaseURL    string        `yaml:"icon_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`

	Port         int           `yaml:"port"`
	DefaultUnits forecast.Unit `yaml:"default_units"`
	FallbackCity string        `yaml:"fallback_city"`

	GeoEnabled bool          `yaml:"geo_enabled"`
	GeoURL     string        `yaml:"geo_url"`
	GeoTimeout time.Duration `yaml:"geo_timeout"`
	GeoMaxAge  time.Duration `yaml:"geo_max_age"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Default returns the built-in settings. APIKey is left empty.
func Default() Config {
	return Config{
		BaseURL:            "https://api.openweathermap.org/data/2.5",
		IconBaseURL:        "https://openweathermap.org/img/wn",
		RateLimitRPS:       1,
		RateLimitBurst:     5,
		Port:               8080,
		DefaultUnits:       forecast.Metric,
		FallbackCity:       "Berlin",
		GeoEnabled:         true,
		GeoURL:             "http://ip-api.com/json",
		GeoTimeout:         10 * time.Second,
		GeoMaxAge:          10 * time.Minute,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load reads configuration from the YAML file named by DASHBOARD_CONFIG (default
// dashboard.yaml, missing file ignored) and from environment variables.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Default()

	path := os.Getenv("DASHBOARD_CONFIG")
	if path == "" {
		path = defaultConfigFile
	}
	if err := loadFile(path, &cfg); err != nil {
		return cfg, err
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if base := os.Getenv("OPENWEATHER_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	if icons := os.Getenv("OPENWEATHER_ICON_URL"); icons != "" {
		cfg.IconBaseURL = icons
	}
	if city := os.Getenv("FALLBACK_CITY"); city != "" {
		cfg.FallbackCity = city
	}
	if geoURL := os.Getenv("GEO_URL"); geoURL != "" {
		cfg.GeoURL = geoURL
	}
	if units := os.Getenv("DEFAULT_UNITS"); units != "" {
		cfg.DefaultUnits = forecast.Unit(units)
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitList(origins)
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	if v := os.Getenv("OPENWEATHER_RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("invalid OPENWEATHER_RATE_LIMIT_RPS: %s", v)
		}
		cfg.RateLimitRPS = rps
	}

	if v := os.Getenv("OPENWEATHER_RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return fmt.Errorf("invalid OPENWEATHER_RATE_LIMIT_BURST: %s", v)
		}
		cfg.RateLimitBurst = burst
	}

	if v := os.Getenv("GEO_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid GEO_ENABLED: %s", v)
		}
		cfg.GeoEnabled = enabled
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"OPENWEATHER_REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"GEO_TIMEOUT", &cfg.GeoTimeout},
		{"GEO_MAX_AGE", &cfg.GeoMaxAge},
	}
	for _, d := range durations {
		v := os.Getenv(d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid %s: %s", d.name, v)
		}
		*d.dst = parsed
	}

	return nil
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return errors.New("OPENWEATHER_API_KEY is required")
	}

	unit, err := forecast.ParseUnit(string(c.DefaultUnits))
	if err != nil {
		return fmt.Errorf("invalid DEFAULT_UNITS: %s", c.DefaultUnits)
	}
	c.DefaultUnits = unit

	if strings.TrimSpace(c.FallbackCity) == "" {
		return errors.New("FALLBACK_CITY must not be blank")
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

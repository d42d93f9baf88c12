package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirror the ones the pipeline has always shipped with: a local
// sqlite file, three large-cap tickers, and Chennai as the weather site.
const (
	defaultDBURL           = "sqlite:///data.db"
	defaultStockSymbols    = "AAPL,MSFT,GOOGL"
	defaultWeatherCoords   = "13.0827,80.2707"
	defaultWeatherLocation = "Chennai,India"
	defaultStockBaseURL    = "https://query1.finance.yahoo.com"
	defaultWeatherBaseURL  = "https://api.open-meteo.com/v1/forecast"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DBURL string

	StockSymbols []string
	StockBaseURL string

	WeatherLat      float64
	WeatherLon      float64
	WeatherLocation string
	WeatherBaseURL  string
	WeatherTimeout  time.Duration

	LogLevel  string
	LogFormat string

	// Daemon-only settings; ignored by the one-pass entry point.
	HTTPAddr      string
	FetchInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	symbols, err := parseSymbols(envOrDefault("STOCK_SYMBOLS", defaultStockSymbols))
	if err != nil {
		return nil, err
	}

	lat, lon, err := parseCoords(envOrDefault("WEATHER_COORDS", defaultWeatherCoords))
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchInterval, err := parsePositiveDuration("FETCH_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBURL:           envOrDefault("DB_URL", defaultDBURL),
		StockSymbols:    symbols,
		StockBaseURL:    envOrDefault("STOCK_BASE_URL", defaultStockBaseURL),
		WeatherLat:      lat,
		WeatherLon:      lon,
		WeatherLocation: envOrDefault("WEATHER_LOCATION_NAME", defaultWeatherLocation),
		WeatherBaseURL:  envOrDefault("WEATHER_BASE_URL", defaultWeatherBaseURL),
		WeatherTimeout:  weatherTimeout,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		FetchInterval:   fetchInterval,
	}

	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is required")
	}
	if cfg.WeatherLocation == "" {
		return nil, errors.New("WEATHER_LOCATION_NAME must not be empty")
	}

	return cfg, nil
}

// parseSymbols splits a comma-separated ticker list, trimming and
// uppercasing each entry. Empty entries are skipped.
func parseSymbols(s string) ([]string, error) {
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" {
			continue
		}
		symbols = append(symbols, sym)
	}
	if len(symbols) == 0 {
		return nil, errors.New("STOCK_SYMBOLS must contain at least one ticker")
	}
	return symbols, nil
}

// parseCoords parses a "lat,lon" pair and checks the values are on the globe.
func parseCoords(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid WEATHER_COORDS %q: want lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid WEATHER_COORDS latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid WEATHER_COORDS longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("WEATHER_COORDS out of range: %s", s)
	}
	return lat, lon, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///data.db", cfg.DBURL)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, cfg.StockSymbols)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.StockBaseURL)
	assert.Equal(t, 13.0827, cfg.WeatherLat)
	assert.Equal(t, 80.2707, cfg.WeatherLon)
	assert.Equal(t, "Chennai,India", cfg.WeatherLocation)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.WeatherBaseURL)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.FetchInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DB_URL", "postgres://user:pw@localhost:5432/market")
	t.Setenv("STOCK_SYMBOLS", " tsla , nvda ")
	t.Setenv("WEATHER_COORDS", "51.5072,-0.1276")
	t.Setenv("WEATHER_LOCATION_NAME", "London,UK")
	t.Setenv("WEATHER_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("FETCH_INTERVAL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://user:pw@localhost:5432/market", cfg.DBURL)
	assert.Equal(t, []string{"TSLA", "NVDA"}, cfg.StockSymbols)
	assert.Equal(t, 51.5072, cfg.WeatherLat)
	assert.Equal(t, -0.1276, cfg.WeatherLon)
	assert.Equal(t, "London,UK", cfg.WeatherLocation)
	assert.Equal(t, 5*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.FetchInterval)
}

func TestLoad_EmptySymbolList(t *testing.T) {
	t.Setenv("STOCK_SYMBOLS", " , ,")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STOCK_SYMBOLS")
}

func TestLoad_InvalidCoords(t *testing.T) {
	cases := []struct {
		name   string
		coords string
	}{
		{"missing longitude", "13.0827"},
		{"not numeric", "north,south"},
		{"latitude out of range", "91,0"},
		{"longitude out of range", "0,181"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("WEATHER_COORDS", tc.coords)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "WEATHER_COORDS")
		})
	}
}

func TestLoad_InvalidWeatherTimeout(t *testing.T) {
	t.Setenv("WEATHER_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_TIMEOUT")
}

func TestLoad_NegativeFetchInterval(t *testing.T) {
	t.Setenv("FETCH_INTERVAL", "-5m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_INTERVAL")
}

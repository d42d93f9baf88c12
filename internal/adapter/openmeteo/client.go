// Package openmeteo fetches an hourly weather series from the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/MadhiG/Real-time-data-pipeline/internal/domain"
	"github.com/MadhiG/Real-time-data-pipeline/internal/observability"
)

// Client fetches hourly observations for one coordinate pair. It implements
// the pipeline's WeatherSource: any failure is logged and yields an empty
// batch, never an error out of Fetch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openmeteo",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch requests the hourly series for the coordinate pair and stamps every
// row with the location label. On any failure (non-2xx, timeout, malformed
// JSON) it logs the error and returns an empty batch.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, location string) domain.RawWeatherBatch {
	batch, err := c.fetch(ctx, lat, lon, location)
	if err != nil {
		c.logger.Warn("weather fetch failed", "lat", lat, "lon", lon, "error", err)
		c.metrics.FetchErrors.WithLabelValues("weather").Inc()
		return domain.RawWeatherBatch{}
	}
	return batch
}

func (c *Client) fetch(ctx context.Context, lat, lon float64, location string) (domain.RawWeatherBatch, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"hourly":    {"temperature_2m,precipitation,windspeed_10m"},
		"timezone":  {"UTC"},
	}

	body, err := c.get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return domain.RawWeatherBatch{}, err
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.RawWeatherBatch{}, fmt.Errorf("decode forecast response: %w", err)
	}

	// The provider contract says the four arrays are equal length and
	// index-aligned; rows are paired positionally up to the shortest.
	n := len(parsed.Hourly.Time)
	for _, l := range []int{
		len(parsed.Hourly.Temperature2m),
		len(parsed.Hourly.Precipitation),
		len(parsed.Hourly.Windspeed10m),
	} {
		if l < n {
			n = l
		}
	}

	rows := make([]domain.RawWeatherRow, 0, n)
	for i := 0; i < n; i++ {
		ts, err := domain.ParseHourlyTime(parsed.Hourly.Time[i])
		if err != nil {
			return domain.RawWeatherBatch{}, fmt.Errorf("parse hourly time %q: %w", parsed.Hourly.Time[i], err)
		}
		rows = append(rows, domain.RawWeatherRow{
			Location:      location,
			Timestamp:     ts,
			Temperature:   parsed.Hourly.Temperature2m[i],
			Precipitation: parsed.Hourly.Precipitation[i],
			Windspeed:     parsed.Hourly.Windspeed10m[i],
		})
	}
	return domain.RawWeatherBatch{Rows: rows}, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("forecast request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("forecast API status %d: %s", resp.StatusCode, b)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// Open-Meteo API response types.

type response struct {
	Hourly struct {
		Time          []string `json:"time"`
		Temperature2m []any    `json:"temperature_2m"`
		Precipitation []any    `json:"precipitation"`
		Windspeed10m  []any    `json:"windspeed_10m"`
	} `json:"hourly"`
}

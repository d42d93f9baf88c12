// Package yahoo fetches OHLCV bars from a Yahoo-style v8 chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/MadhiG/Real-time-data-pipeline/internal/domain"
	"github.com/MadhiG/Real-time-data-pipeline/internal/observability"
)

// Client fetches recent bars per symbol. It implements the pipeline's
// StockSource: per-symbol failures are logged and skipped, and a run where
// every symbol fails yields an empty batch, not an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a stock chart client. The HTTP client uses the default
// transport timeout policy; only the weather source carries an explicit one.
func NewClient(baseURL string, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "yahoo",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch requests a recent intraday series for each symbol, falling back to a
// short daily series when the intraday window is empty (market closed,
// delisted). Successful per-symbol batches are concatenated in symbol order;
// the column list is the union of the columns each symbol produced, in
// canonical order. Timestamps are UTC instants with no zone metadata beyond
// that.
func (c *Client) Fetch(ctx context.Context, symbols []string) domain.RawStockBatch {
	var batch domain.RawStockBatch
	present := map[string]bool{}

	for _, symbol := range symbols {
		rows, cols, err := c.fetchChart(ctx, symbol, "1d", "5m")
		if err == nil && len(rows) == 0 {
			rows, cols, err = c.fetchChart(ctx, symbol, "5d", "1d")
		}
		if err != nil {
			c.logger.Warn("stock fetch failed, skipping symbol", "symbol", symbol, "error", err)
			c.metrics.FetchErrors.WithLabelValues("stocks").Inc()
			continue
		}
		if len(rows) == 0 {
			c.logger.Info("no bars returned for symbol", "symbol", symbol)
			continue
		}
		batch.Rows = append(batch.Rows, rows...)
		for _, col := range cols {
			present[col] = true
		}
	}

	for _, col := range domain.StockColumns {
		if present[col] {
			batch.Columns = append(batch.Columns, col)
		}
	}
	return batch
}

// fetchChart requests one symbol's chart for the given range and interval and
// renames the provider's native fields to canonical ones, tagging each row
// with the symbol. The returned column list covers only the canonical columns
// the response actually carried.
func (c *Client) fetchChart(ctx context.Context, symbol, chartRange, interval string) ([]domain.RawStockRow, []string, error) {
	params := url.Values{
		"range":          {chartRange},
		"interval":       {interval},
		"includePrePost": {"false"},
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, fmt.Errorf("decode chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, nil, fmt.Errorf("chart API error: %s: %s", parsed.Chart.Error.Code, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, nil, nil
	}

	result := parsed.Chart.Result[0]
	var quote chartQuote
	if len(result.Indicators.Quote) > 0 {
		quote = result.Indicators.Quote[0]
	}

	rows := make([]domain.RawStockRow, 0, len(result.Timestamp))
	for i, sec := range result.Timestamp {
		ts := time.Unix(sec, 0).UTC()
		rows = append(rows, domain.RawStockRow{
			Symbol:    symbol,
			Timestamp: &ts,
			Open:      valueAt(quote.Open, i),
			High:      valueAt(quote.High, i),
			Low:       valueAt(quote.Low, i),
			Close:     valueAt(quote.Close, i),
			Volume:    valueAt(quote.Volume, i),
		})
	}

	cols := []string{"symbol", "timestamp"}
	for _, f := range []struct {
		name   string
		values []any
	}{
		{"open", quote.Open},
		{"high", quote.High},
		{"low", quote.Low},
		{"close", quote.Close},
		{"volume", quote.Volume},
	} {
		if f.values != nil {
			cols = append(cols, f.name)
		}
	}
	return rows, cols, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", "market-weather-ingest/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("chart request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("chart API status %d: %s", resp.StatusCode, b)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// Chart API response types. Quote arrays are index-aligned with Timestamp;
// null entries mark missing values within a bar.

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []any `json:"open"`
	High   []any `json:"high"`
	Low    []any `json:"low"`
	Close  []any `json:"close"`
	Volume []any `json:"volume"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func valueAt(values []any, i int) any {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

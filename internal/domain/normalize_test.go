package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStocks_CoercesNumericsToNil(t *testing.T) {
	ts := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	raw := RawStockBatch{
		Columns: []string{"symbol", "timestamp", "open", "high", "low", "close", "volume"},
		Rows: []RawStockRow{
			{Symbol: "AAPL", Timestamp: &ts, Open: 100.0, High: 101.0, Low: 99.0, Close: "not_a_number", Volume: 1000.0},
		},
	}

	batch := NormalizeStocks(raw)

	// The malformed close degrades to nil; the row itself survives.
	require.Len(t, batch.Bars, 1)
	bar := batch.Bars[0]
	assert.Equal(t, "AAPL", bar.Symbol)
	assert.Equal(t, ts, bar.Timestamp)
	require.NotNil(t, bar.Open)
	assert.Equal(t, 100.0, *bar.Open)
	assert.Nil(t, bar.Close)
	require.NotNil(t, bar.Volume)
	assert.Equal(t, 1000.0, *bar.Volume)
}

func TestNormalizeStocks_DropsRowsWithoutTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	raw := RawStockBatch{
		Columns: []string{"symbol", "timestamp", "close"},
		Rows: []RawStockRow{
			{Symbol: "AAPL", Timestamp: nil, Close: 100.0},
			{Symbol: "AAPL", Timestamp: &ts, Close: 101.0},
		},
	}

	batch := NormalizeStocks(raw)

	require.Len(t, batch.Bars, 1)
	assert.Equal(t, ts, batch.Bars[0].Timestamp)
}

func TestNormalizeStocks_ProjectsColumnsInCanonicalOrder(t *testing.T) {
	ts := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	raw := RawStockBatch{
		Columns: []string{"volume", "symbol", "timestamp"},
		Rows:    []RawStockRow{{Symbol: "MSFT", Timestamp: &ts, Volume: 500.0}},
	}

	batch := NormalizeStocks(raw)

	assert.Equal(t, []string{"symbol", "timestamp", "volume"}, batch.Columns)
}

func TestNormalizeStocks_EmptyBatch(t *testing.T) {
	batch := NormalizeStocks(RawStockBatch{})
	assert.True(t, batch.Empty())
	assert.Empty(t, batch.Columns)
}

func TestNormalizeWeather_EmptyPassthrough(t *testing.T) {
	batch := NormalizeWeather(RawWeatherBatch{})
	assert.True(t, batch.Empty())
	assert.Empty(t, batch.Columns)
}

func TestNormalizeWeather_CoercesAndProjects(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	raw := RawWeatherBatch{
		Rows: []RawWeatherRow{
			{Location: "Chennai,India", Timestamp: ts, Temperature: 28.4, Windspeed: "bogus", Precipitation: 0.0},
		},
	}

	batch := NormalizeWeather(raw)

	assert.Equal(t, []string{"location", "timestamp", "temperature", "windspeed", "precipitation"}, batch.Columns)
	want := []WeatherSample{
		{
			Location:      "Chennai,India",
			Timestamp:     ts,
			Temperature:   ptr(28.4),
			Windspeed:     nil,
			Precipitation: ptr(0.0),
		},
	}
	if diff := cmp.Diff(want, batch.Samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestRowValues(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bar := StockBar{Symbol: "AAPL", Timestamp: ts, Open: ptr(100.0)}

	assert.Equal(t, "AAPL", bar.Value("symbol"))
	assert.Equal(t, ts, bar.Value("timestamp"))
	assert.Equal(t, 100.0, bar.Value("open"))
	assert.Nil(t, bar.Value("close"))
	assert.Nil(t, bar.Value("no_such_column"))

	sample := WeatherSample{Location: "Chennai,India", Timestamp: ts, Precipitation: ptr(1.5)}
	assert.Equal(t, "Chennai,India", sample.Value("location"))
	assert.Equal(t, 1.5, sample.Value("precipitation"))
	assert.Nil(t, sample.Value("temperature"))
}

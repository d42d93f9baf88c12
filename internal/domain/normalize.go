package domain

// NormalizeStocks turns a raw stock batch into its canonical form:
// rows without a timestamp are dropped, every numeric field is coerced
// best-effort (nil on failure), and the column list is projected to the
// canonical order, omitting columns the source never produced.
// Pure and total: no input aborts normalization.
func NormalizeStocks(raw RawStockBatch) StockBatch {
	bars := make([]StockBar, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		if row.Timestamp == nil || row.Timestamp.IsZero() {
			continue
		}
		bars = append(bars, StockBar{
			Symbol:    row.Symbol,
			Timestamp: *row.Timestamp,
			Open:      Float64OrNil(row.Open),
			High:      Float64OrNil(row.High),
			Low:       Float64OrNil(row.Low),
			Close:     Float64OrNil(row.Close),
			Volume:    Float64OrNil(row.Volume),
		})
	}
	return StockBatch{
		Columns: projectColumns(StockColumns, raw.Columns),
		Bars:    bars,
	}
}

// NormalizeWeather turns a raw weather batch into its canonical form.
// An empty batch passes through unchanged; otherwise numeric fields are
// coerced best-effort and the full canonical column set applies.
func NormalizeWeather(raw RawWeatherBatch) WeatherBatch {
	if raw.Empty() {
		return WeatherBatch{}
	}
	samples := make([]WeatherSample, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		samples = append(samples, WeatherSample{
			Location:      row.Location,
			Timestamp:     row.Timestamp,
			Temperature:   Float64OrNil(row.Temperature),
			Windspeed:     Float64OrNil(row.Windspeed),
			Precipitation: Float64OrNil(row.Precipitation),
		})
	}
	return WeatherBatch{
		Columns: append([]string(nil), WeatherColumns...),
		Samples: samples,
	}
}

// projectColumns returns the canonical columns that are present in the
// input, preserving canonical order regardless of input order.
func projectColumns(canonical, present []string) []string {
	set := make(map[string]bool, len(present))
	for _, c := range present {
		set[c] = true
	}
	out := make([]string, 0, len(canonical))
	for _, c := range canonical {
		if set[c] {
			out = append(out, c)
		}
	}
	return out
}

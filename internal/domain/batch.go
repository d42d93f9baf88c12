package domain

import "time"

// Canonical column orders for the two target tables. Batches carry the
// subset of these that the source actually produced, in this order.
var (
	StockColumns   = []string{"symbol", "timestamp", "open", "high", "low", "close", "volume"}
	WeatherColumns = []string{"location", "timestamp", "temperature", "windspeed", "precipitation"}
)

// Row exposes a record's value for a named column. The store binds values
// by column name, so auto-generated identity columns never appear here.
type Row interface {
	Value(column string) any
}

// RawStockRow is one provider bar after column renaming, tagged with its
// symbol. Numeric values are still untyped (whatever the provider JSON
// carried); Timestamp is nil when the provider gave none.
type RawStockRow struct {
	Symbol    string
	Timestamp *time.Time
	Open      any
	High      any
	Low       any
	Close     any
	Volume    any
}

// RawStockBatch is the concatenated per-symbol output of the stock adapter.
// Columns lists the canonical columns present in at least one source row.
type RawStockBatch struct {
	Columns []string
	Rows    []RawStockRow
}

func (b RawStockBatch) Empty() bool { return len(b.Rows) == 0 }

// RawWeatherRow is one hourly observation zipped from the provider's
// parallel arrays, stamped with the configured location label.
type RawWeatherRow struct {
	Location      string
	Timestamp     time.Time
	Temperature   any
	Windspeed     any
	Precipitation any
}

// RawWeatherBatch is the output of the weather adapter for one coordinate pair.
type RawWeatherBatch struct {
	Rows []RawWeatherRow
}

func (b RawWeatherBatch) Empty() bool { return len(b.Rows) == 0 }

// StockBar is a canonical OHLCV observation for one ticker. Numeric fields
// are nullable: a partial quote persists with nil values, never an error.
type StockBar struct {
	Symbol    string
	Timestamp time.Time
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *float64
}

// Value implements Row.
func (b StockBar) Value(column string) any {
	switch column {
	case "symbol":
		return b.Symbol
	case "timestamp":
		return b.Timestamp
	case "open":
		return floatValue(b.Open)
	case "high":
		return floatValue(b.High)
	case "low":
		return floatValue(b.Low)
	case "close":
		return floatValue(b.Close)
	case "volume":
		return floatValue(b.Volume)
	default:
		return nil
	}
}

// WeatherSample is a canonical hourly observation for one location label.
type WeatherSample struct {
	Location      string
	Timestamp     time.Time
	Temperature   *float64
	Windspeed     *float64
	Precipitation *float64
}

// Value implements Row.
func (s WeatherSample) Value(column string) any {
	switch column {
	case "location":
		return s.Location
	case "timestamp":
		return s.Timestamp
	case "temperature":
		return floatValue(s.Temperature)
	case "windspeed":
		return floatValue(s.Windspeed)
	case "precipitation":
		return floatValue(s.Precipitation)
	default:
		return nil
	}
}

// StockBatch is a normalized batch destined for the stocks table.
type StockBatch struct {
	Columns []string
	Bars    []StockBar
}

func (b StockBatch) Empty() bool { return len(b.Bars) == 0 }

// Rows adapts the batch for the store.
func (b StockBatch) Rows() []Row {
	rows := make([]Row, len(b.Bars))
	for i := range b.Bars {
		rows[i] = b.Bars[i]
	}
	return rows
}

// WeatherBatch is a normalized batch destined for the weather table.
type WeatherBatch struct {
	Columns []string
	Samples []WeatherSample
}

func (b WeatherBatch) Empty() bool { return len(b.Samples) == 0 }

// Rows adapts the batch for the store.
func (b WeatherBatch) Rows() []Row {
	rows := make([]Row, len(b.Samples))
	for i := range b.Samples {
		rows[i] = b.Samples[i]
	}
	return rows
}

func floatValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

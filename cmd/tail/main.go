// Command tail prints the most recent rows of one of the ingested tables,
// newest first. It is the read-side contract dashboards rely on, packaged
// as an ops tool; the ingestion pipeline itself never reads these tables.
//
// Usage:
//
//	go run ./cmd/tail -table stocks -limit 20
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MadhiG/Real-time-data-pipeline/internal/config"
	"github.com/MadhiG/Real-time-data-pipeline/internal/observability"
	"github.com/MadhiG/Real-time-data-pipeline/internal/store"
)

func main() {
	table := flag.String("table", "stocks", "table to read: stocks or weather")
	limit := flag.Int("limit", 20, "maximum rows to print")
	flag.Parse()

	if code := run(*table, *limit); code != 0 {
		os.Exit(code)
	}
}

func run(table string, limit int) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	logger := observability.NewLogger("error", cfg.LogFormat)
	st, err := store.Open(cfg.DBURL, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open store:", err)
		return 1
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	columns, rows, err := st.Recent(ctx, table, limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		return 1
	}

	fmt.Println(strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	return 0
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

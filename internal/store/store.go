// Package store persists normalized batches into a relational database,
// reachable through a connection-string style DB_URL. Supported schemes are
// sqlite:// (local file, the default) and postgres://.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MadhiG/Real-time-data-pipeline/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// timestampLayout is how instants are bound into the TIMESTAMP columns.
// Rendering the value as a string strips any zone metadata, keeping the
// stored timestamps naive for both dialects.
const timestampLayout = "2006-01-02 15:04:05"

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store wraps the SQL connection and owns table creation and appends.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Open parses a DB_URL and opens the matching driver. sqlite:///name.db
// resolves relative to the working directory; sqlite:////abs/name.db is
// absolute, mirroring the connection-string convention the project has
// always used.
func Open(dbURL string, logger *slog.Logger) (*Store, error) {
	driver, dsn, d, err := parseDBURL(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Store{db: db, dialect: d, logger: logger}, nil
}

func parseDBURL(dbURL string) (driver, dsn string, d dialect, err error) {
	switch {
	case strings.HasPrefix(dbURL, "sqlite://"), strings.HasPrefix(dbURL, "sqlite3://"):
		path := dbURL[strings.Index(dbURL, "://")+3:]
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return "", "", 0, fmt.Errorf("invalid DB_URL %q: missing sqlite file path", dbURL)
		}
		return "sqlite", path, dialectSQLite, nil
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return "pgx", dbURL, dialectPostgres, nil
	default:
		return "", "", 0, fmt.Errorf("unsupported DB_URL scheme in %q", dbURL)
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the two target tables when absent. Safe to call on
// every run; an existing table is left untouched, and no compatibility check
// is made against its columns.
func (s *Store) EnsureSchema(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == dialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS stocks (
			%s,
			symbol TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			open NUMERIC,
			high NUMERIC,
			low NUMERIC,
			close NUMERIC,
			volume NUMERIC
		)`, idColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS weather (
			%s,
			location TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			temperature NUMERIC,
			windspeed NUMERIC,
			precipitation NUMERIC
		)`, idColumn),
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	s.logger.Debug("schema ensured", "tables", []string{"stocks", "weather"})
	return nil
}

// Append inserts every row of the batch into the named table, binding values
// by column name. The whole batch is one transaction. Appending an empty
// batch is a no-op. Appends never touch existing rows; replaying a batch
// duplicates them.
func (s *Store) Append(ctx context.Context, table string, columns []string, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if len(columns) == 0 {
		return fmt.Errorf("append to %s: no columns", table)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		if s.dialect == dialectPostgres {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	// Table and column names come from the canonical schema, never from input.
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append to %s: begin: %w", table, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("append to %s: prepare: %w", table, err)
	}
	defer prepared.Close()

	args := make([]any, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			args[i] = bindValue(row.Value(col))
		}
		if _, err := prepared.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("append to %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append to %s: commit: %w", table, err)
	}
	return nil
}

// Recent returns up to limit rows from the named table, most recent first by
// timestamp. This is the read contract of downstream consumers; the pipeline
// itself never reads back what it wrote.
func (s *Store) Recent(ctx context.Context, table string, limit int) ([]string, [][]any, error) {
	if table != "stocks" && table != "weather" {
		return nil, nil, fmt.Errorf("unknown table %q", table)
	}
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY timestamp DESC LIMIT %d", table, limit)
	result, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: columns: %w", table, err)
	}

	var rows [][]any
	for result.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := result.Scan(scan...); err != nil {
			return nil, nil, fmt.Errorf("query %s: scan: %w", table, err)
		}
		rows = append(rows, values)
	}
	return columns, rows, result.Err()
}

// bindValue converts a domain value into its driver representation.
func bindValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(timestampLayout)
	}
	return v
}

// Package journal records delivered events in an embedded database so runs
// can be inspected after the fact.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

// ErrUnsupportedDriver is returned by Open for unknown driver names.
var ErrUnsupportedDriver = errors.New("journal: unsupported driver")

//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the schema applied by Open.
func SchemaDDL() string {
	return schemaDDL
}

// Journal is an open event database.
type Journal struct {
	db     *sql.DB
	driver string
}

// Open opens or creates the database at path.
func Open(driver, path string) (*Journal, error) {
	switch driver {
	case DriverDuckDB, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if path == "" {
		return nil, errors.New("journal: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One writer at a time for both engines.
	db.SetMaxOpenConns(1)
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db, driver: driver}, nil
}

// EnsureSchema applies the schema one statement at a time.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("journal: db is nil")
	}
	for _, stmt := range strings.Split(schemaDDL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Driver returns the driver name.
func (j *Journal) Driver() string { return j.driver }

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) exec(ctx context.Context, query string, args ...any) error {
	_, err := j.db.ExecContext(ctx, query, args...)
	return err
}

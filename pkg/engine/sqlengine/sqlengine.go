// Package sqlengine adapts a database/sql handle to the engine contract.
// The embedded analytical engine is reached through the sqlite3 driver by
// default, but any database/sql driver works.
package sqlengine

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/skald-ai/skald-engine/pkg/engine"
)

// Engine wraps a caller-owned *sql.DB. It does not open or close the
// underlying handle.
type Engine struct {
	db *sql.DB
}

// New wraps db as a query engine.
func New(db *sql.DB) *Engine {
	return &Engine{db: db}
}

// Open creates an engine over a new database/sql handle.
func Open(driver, dsn string) (*Engine, *sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open engine database: %w", err)
	}
	return New(db), db, nil
}

// Query executes sql against the engine. Failures are returned as
// *engine.CatalogError with a classified kind.
func (e *Engine) Query(ctx context.Context, query string) (*engine.QueryResult, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &engine.CatalogError{
			Kind:    engine.ClassifyMessage(err.Error()),
			Message: err.Error(),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	result := &engine.QueryResult{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	return result, nil
}

// ListObjects returns the names of all tables and views in the catalog.
func (e *Engine) ListObjects(ctx context.Context) ([]string, error) {
	res, err := e.Query(ctx, `SELECT name FROM sqlite_master WHERE type IN ('table', 'view') ORDER BY name`)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		name, ok := row["name"].(string)
		if !ok {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

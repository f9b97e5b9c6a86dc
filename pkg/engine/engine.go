// Package engine defines the narrow contract this subsystem consumes from
// the embedded analytical query engine. The engine itself (connection
// lifecycle, dialect, storage) is owned by the caller.
package engine

import "context"

// QueryEngine executes a query string against the live catalog. The handle
// is caller-owned; this subsystem never acquires or releases it.
type QueryEngine interface {
	// Query runs sql and returns results. Catalog failures are returned as
	// *CatalogError so callers can branch on error kind rather than on
	// message text.
	Query(ctx context.Context, sql string) (*QueryResult, error)
}

// CatalogLister lists the names of all objects (tables and views) present
// in the live catalog.
type CatalogLister interface {
	ListObjects(ctx context.Context) ([]string, error)
}

// QueryResult contains the rows of a query execution.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

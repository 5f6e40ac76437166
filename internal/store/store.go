// Package store implements persistence and the inventory and sale engine
// on top of SQLite. All stock mutation goes through this package, inside
// write transactions that re-read current state, so the non-negative stock
// invariant and the stock/status consistency invariant hold under
// concurrent access.
package store

import (
	"context"
	"database/sql"
)

// querier is the subset of *sql.DB and *sql.Tx the stores need, so helpers
// can run both standalone and inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

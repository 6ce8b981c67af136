package repository

import (
	"context"
	"database/sql"
)

// DBTX is the database handle a repository method runs on. The caller decides
// whether that is a pooled *sql.Conn or a *sql.Tx spanning several repository
// calls; repositories never open handles or transactions of their own.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.Conn)(nil)
	_ DBTX = (*sql.Tx)(nil)
	_ DBTX = (*sql.DB)(nil)
)

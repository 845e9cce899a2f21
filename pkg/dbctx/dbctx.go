// Package dbctx carries the request context together with the active
// transaction so repositories never reach for an implicit session.
package dbctx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Context is passed explicitly into every repository call. Tx is nil for
// reads that run directly on the pool.
type Context struct {
	Ctx context.Context
	Tx  *sqlx.Tx
}

// New wraps a context without a transaction.
func New(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// Context returns the request context, defaulting to Background.
func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type Execer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// Executor returns the transaction when present, otherwise db.
func (c Context) Executor(db *sqlx.DB) Execer {
	if c.Tx != nil {
		return c.Tx
	}
	return db
}

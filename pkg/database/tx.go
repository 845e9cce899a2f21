package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

// Transactor scopes a unit of work to a single transaction.
type Transactor struct {
	db *sqlx.DB
}

// NewTransactor constructs a Transactor over db.
func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx begins a transaction, hands it to fn and commits when fn returns
// nil. Any error or panic rolls the transaction back before returning.
func (t *Transactor) WithinTx(ctx context.Context, fn func(dbc dbctx.Context) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

package service

import (
	"context"

	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

// txStub runs fn without a real transaction and records the outcome.
type txStub struct {
	calls   int
	aborted int
	err     error
}

func (t *txStub) WithinTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	t.calls++
	if t.err != nil {
		return t.err
	}
	if err := fn(dbctx.New(ctx)); err != nil {
		t.aborted++
		return err
	}
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

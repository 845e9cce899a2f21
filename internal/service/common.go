package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/repository"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

// txRunner runs fn inside a single transaction.
type txRunner interface {
	WithinTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

func read(ctx context.Context) dbctx.Context {
	return dbctx.New(ctx)
}

// lookupError maps a repository read failure to not-found or internal.
func lookupError(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, internal)
}

// saveError maps a failed write to a conflict or a generic could-not-save
// error. Errors that are already typed pass through unchanged.
func saveError(err error, conflict, internal string) error {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return appErrors.Clone(appErrors.ErrConflict, conflict)
	}
	return appErrors.Internal(err, internal)
}

// dashboardCachePattern matches every cached dashboard payload.
const dashboardCachePattern = "dashboard:*"

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// invalidateDashboards drops cached dashboards after a write. Failures are
// logged; stale entries still expire with the TTL.
func invalidateDashboards(ctx context.Context, cache cacheInvalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

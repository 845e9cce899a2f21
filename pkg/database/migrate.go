package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/migrations"
)

// Migrate applies all pending embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	return RunMigrations(ctx, db, logger, "up")
}

// RunMigrations executes a goose command (up, down, status, version) against
// the embedded migration set.
func RunMigrations(ctx context.Context, db *sqlx.DB, logger *zap.Logger, command string) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db.DB, ".")
	case "down":
		err = goose.DownContext(ctx, db.DB, ".")
	case "status":
		err = goose.StatusContext(ctx, db.DB, ".")
	case "version":
		err = goose.VersionContext(ctx, db.DB, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.s.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.s.Infof(format, v...) }

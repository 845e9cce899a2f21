package main

import (
	"context"
	"log"

	"github.com/noah-isme/sma-syllabus-api/internal/repository"
	"github.com/noah-isme/sma-syllabus-api/internal/seed"
	"github.com/noah-isme/sma-syllabus-api/pkg/config"
	"github.com/noah-isme/sma-syllabus-api/pkg/database"
	"github.com/noah-isme/sma-syllabus-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db, logr); err != nil {
		logr.Sugar().Fatalw("migrations failed", "error", err)
	}

	seeder := seed.New(seed.Stores{
		Users:       repository.NewUserRepository(db),
		Classes:     repository.NewClassRepository(db),
		Subjects:    repository.NewSubjectRepository(db),
		Syllabus:    repository.NewSyllabusRepository(db),
		Assignments: repository.NewTeacherAssignmentRepository(db),
	}, database.NewTransactor(db), logr)

	if _, err := seeder.Run(ctx); err != nil {
		logr.Sugar().Fatalw("seed failed", "error", err)
	}
	for _, u := range seed.DemoUsers {
		logr.Sugar().Infow("demo login", "role", u.Role, "username", u.Username, "password", u.Password)
	}
}

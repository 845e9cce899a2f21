package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/noah-isme/sma-syllabus-api/pkg/config"
	"github.com/noah-isme/sma-syllabus-api/pkg/database"
	"github.com/noah-isme/sma-syllabus-api/pkg/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [up|down|status|version]\n", os.Args[0])
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

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

	if err := database.RunMigrations(context.Background(), db, logr, command); err != nil {
		logr.Sugar().Fatalw("migration command failed", "command", command, "error", err)
	}
	logr.Sugar().Infow("migration command finished", "command", command)
}

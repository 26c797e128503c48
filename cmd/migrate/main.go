package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for -cmd=create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (for -cmd=version)")
	flag.Parse()

	_ = godotenv.Load()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	cfg, err := config.Load()
	if err != nil {
		fail(context.Background(), logg, "loading config", err)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	// create and validate work on files only, no DB needed.
	switch *cmd {
	case "create":
		if *name == "" {
			fail(ctx, logg, "create", fmt.Errorf("missing -name"))
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail(ctx, logg, "creating migration", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail(ctx, logg, "validating migrations", err)
		}
		fmt.Println("migrations valid")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fail(ctx, logg, "connecting database", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		fail(ctx, logg, "unwrapping sql.DB", err)
	}

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fail(ctx, logg, "goose "+*cmd, err)
		}
	case "version":
		if *version == "" {
			fail(ctx, logg, "version", fmt.Errorf("missing -version"))
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fail(ctx, logg, "migrating to version", err)
		}
	default:
		fail(ctx, logg, "parsing flags", fmt.Errorf("unknown -cmd %q", *cmd))
	}
}

func fail(ctx context.Context, logg *logger.Logger, step string, err error) {
	logg.Error(ctx, "migrate: "+step, err)
	os.Exit(1)
}

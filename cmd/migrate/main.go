package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/config"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const usage = "usage: migrate [up|up-by-one|down|redo|reset|status|version|create <name>]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(usage)
	}
	command, arguments := strings.ToLower(args[0]), args[1:]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		return fmt.Errorf("sqlite databases are migrated by the api on startup")
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrationsDir := "./migrations"
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		migrationsDir = dir
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "create":
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.Create(db, migrationsDir, arguments[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Printf("Migration created: %s\n", arguments[0])
		return nil
	case "up", "up-by-one", "down", "redo", "reset", "status", "version":
		// goose.Run understands these directly
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	if err := goose.Run(command, db, migrationsDir, arguments...); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	fmt.Printf("migrate %s: done\n", command)
	return nil
}

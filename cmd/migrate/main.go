package main

import (
	"fmt"
	"os"
	"strconv"

	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	migrator, err := database.NewMigrator(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.LogError("Failed to create migrator", err)
		os.Exit(1)
	}
	defer migrator.Close()

	switch command {
	case "up":
		handleUp(migrator)
	case "down":
		handleDown(migrator)
	case "steps":
		handleSteps(migrator, os.Args[2:])
	case "version", "status":
		handleVersion(migrator)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		migrator.Close()
		os.Exit(1)
	}
}

func handleUp(migrator *database.Migrator) {
	logger.LogInfo("Applying migrations")
	if err := migrator.Up(); err != nil {
		fail("Failed to apply migrations", err, migrator)
	}
	logger.LogInfo("Migrations applied")
}

func handleDown(migrator *database.Migrator) {
	logger.LogInfo("Rolling back last migration")
	if err := migrator.Down(); err != nil {
		fail("Failed to roll back migration", err, migrator)
	}
	logger.LogInfo("Migration rolled back")
}

func handleSteps(migrator *database.Migrator, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: 'steps' needs a number argument")
		migrator.Close()
		os.Exit(1)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fail("Invalid number", err, migrator)
	}
	if err := migrator.Steps(n); err != nil {
		fail("Failed to execute steps", err, migrator)
	}
	logger.LogInfo("Migration steps applied", "steps", n)
}

func handleVersion(migrator *database.Migrator) {
	v, dirty, err := migrator.Version()
	if err != nil {
		fail("Failed to get current version", err, migrator)
	}
	fmt.Printf("Current migration version: %d (dirty: %v)\n", v, dirty)
}

// fail logs err and exits. Deferred calls do not run on os.Exit, so the
// migrator is closed here.
func fail(msg string, err error, migrator *database.Migrator) {
	logger.LogError(msg, err)
	migrator.Close()
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stdout, `Usage: migrate <command>

Commands:
  up                  Apply all pending migrations
  down                Roll back the last migration
  steps <number>      Apply (positive) or roll back (negative) migrations
  version, status     Show the current migration version
  help                Show this help message

Environment Variables:
  DB_DRIVER           postgres or sqlite3
  DB_DSN              Connection string for the driver
`)
}

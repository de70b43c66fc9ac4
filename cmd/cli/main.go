package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akeren/portfolio-api/config"
	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/pkg/migrations"
	"github.com/akeren/portfolio-api/pkg/utils"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := migrate(logger); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func migrate(logger *log.Logger) error {
	storeCfg, err := config.NewStoreConfig()
	if err != nil {
		return err
	}

	var (
		db     *gorm.DB
		driver string
	)

	switch storeCfg.Backend {
	case config.StoreSQLite:
		db, err = config.NewSQLiteDatabase(logger, storeCfg.SQLitePath)
		driver = migrations.DriverSQLite
	case config.StoreSQL:
		db, err = config.NewDatabase(logger, nil)
		driver = migrations.DriverPostgres
	default:
		logger.Info("Message store has no SQL schema; nothing to migrate", "backend", storeCfg.Backend)
		return nil
	}
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}

	sqlDB, err := config.SQLHandle(db)
	if err != nil {
		return fmt.Errorf("get SQL DB instance for migration: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	err = migrations.Up(ctx, sqlDB, migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Driver: driver,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	logger.Info("Database migrations completed", "backend", storeCfg.Backend)
	return nil
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate  Apply SQL migrations for the sql or sqlite message store and exit")
}

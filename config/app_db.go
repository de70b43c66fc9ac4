package config

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

// The contact table sees one short insert per submission; a small pool is plenty.
func defaultDBConfig() *DBConfig {
	return &DBConfig{
		MaxIdleConns:    2,
		MaxOpenConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		SSLMode:         "require",
	}
}

// postgresEnv is the discrete POSTGRES_* connection surface, used when
// APP_DATABASE_URL is not set.
type postgresEnv struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func postgresEnvFromOS() postgresEnv {
	read := func(key string) string { return sanitizeEnv(GetValueFromEnvironmentVariable(key, "")) }

	return postgresEnv{
		Host:     read("POSTGRES_HOST"),
		Port:     read("POSTGRES_PORT"),
		User:     read("POSTGRES_USER"),
		Password: read("POSTGRES_PASSWORD"),
		DBName:   read("POSTGRES_DB_NAME"),
		SSLMode:  read("POSTGRES_SSLMODE"),
	}
}

func (e postgresEnv) missing() []string {
	var missing []string
	for _, v := range []struct{ key, value string }{
		{"POSTGRES_HOST", e.Host},
		{"POSTGRES_PORT", e.Port},
		{"POSTGRES_USER", e.User},
		{"POSTGRES_DB_NAME", e.DBName},
	} {
		if v.value == "" {
			missing = append(missing, v.key)
		}
	}
	return missing
}

// dsn renders a key/value postgres DSN; sslMode fills in when POSTGRES_SSLMODE is empty.
func (e postgresEnv) dsn(sslMode string) (string, error) {
	if missing := e.missing(); len(missing) > 0 {
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(e.Port)
	if err != nil {
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", e.Port, err)
	}

	if e.SSLMode != "" {
		sslMode = e.SSLMode
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		e.Host, port, e.User, e.Password, e.DBName, sslMode), nil
}

func postgresDSN(logger *log.Logger, cfg *DBConfig) (string, error) {
	if url := sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", "")); url != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return url, nil
	}

	env := postgresEnvFromOS()
	dsn, err := env.dsn(cfg.SSLMode)
	if err != nil {
		logger.Error("Invalid postgres configuration", "error", err)
		return "", err
	}

	logger.Info("Connecting to database", "host", env.Host, "port", env.Port, "user", env.User, "dbname", env.DBName)
	return dsn, nil
}

// NewDatabase opens the postgres contact store described by the environment.
func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = defaultDBConfig()
	}

	dsn, err := postgresDSN(logger, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := openGorm(logger, postgres.Open(dsn), "postgres")
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		logger.Error("Database ping failed", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established")
	return gdb, nil
}

// NewSQLiteDatabase opens a file-backed (or ":memory:") sqlite database for local
// development and tests.
func NewSQLiteDatabase(logger *log.Logger, path string) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is empty")
	}

	gdb, err := openGorm(logger, sqlite.Open(path), "sqlite")
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// sqlite serialises writers; one connection avoids "database is locked".
	sqlDB.SetMaxOpenConns(1)

	logger.Info("SQLite database opened", "path", path)
	return gdb, nil
}

func openGorm(logger *log.Logger, dialector gorm.Dialector, name string) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Error("Failed to open database", "driver", name, "error", err)
		return nil, fmt.Errorf("failed to open %s database: %w", name, err)
	}
	return gdb, nil
}

// sanitizeEnv trims whitespace and one pair of matching surrounding quotes.
func sanitizeEnv(v string) string {
	return utils.TrimQuotes(strings.TrimSpace(v))
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...any) error {
	if db == nil {
		return errors.New("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database schema migrated", "models", len(models))
	return nil
}

// SQLHandle exposes the pool behind a gorm handle for the migrate driver.
func SQLHandle(db *gorm.DB) (*sql.DB, error) {
	if db == nil {
		return nil, errors.New("database is not configured")
	}
	return db.DB()
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	sqlDB, err := SQLHandle(db)
	if err != nil {
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return
	}

	logger.Info("Database closed")
}

package config

import (
	"fmt"
	"strings"

	"github.com/akeren/portfolio-api/pkg/constants"
	"github.com/akeren/portfolio-api/pkg/utils"
)

// StoreBackend names where contact messages are written.
type StoreBackend string

const (
	StoreMongo  StoreBackend = "mongo"
	StoreSQL    StoreBackend = "sql"
	StoreSQLite StoreBackend = "sqlite"
	StoreNoop   StoreBackend = "noop"
)

type StoreConfig struct {
	Backend       StoreBackend
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
}

// NewStoreConfig reads MESSAGE_STORE, MONGODB_URI, MONGODB_DB and SQLITE_PATH and
// resolves the backend once for the lifetime of the process.
func NewStoreConfig() (*StoreConfig, error) {
	mongoURI := sanitizeEnv(utils.GetEnvTrimmed("MONGODB_URI"))

	backend, err := ResolveStoreBackend(utils.GetEnvTrimmed("MESSAGE_STORE"), mongoURI, postgresConfigured())
	if err != nil {
		return nil, err
	}

	return &StoreConfig{
		Backend:       backend,
		MongoURI:      mongoURI,
		MongoDatabase: utils.GetEnvTrimmedOrDefault("MONGODB_DB", constants.DefaultMongoDatabase),
		SQLitePath:    utils.GetEnvTrimmedOrDefault("SQLITE_PATH", "portfolio.db"),
	}, nil
}

// ResolveStoreBackend picks the message store. An explicit value wins; otherwise a
// Mongo URI selects mongo, postgres settings select sql and nothing selects noop.
func ResolveStoreBackend(explicit, mongoURI string, postgres bool) (StoreBackend, error) {
	switch StoreBackend(strings.ToLower(strings.TrimSpace(explicit))) {
	case StoreMongo:
		if mongoURI == "" {
			return "", fmt.Errorf("MESSAGE_STORE=mongo requires MONGODB_URI")
		}
		return StoreMongo, nil
	case StoreSQL:
		return StoreSQL, nil
	case StoreSQLite:
		return StoreSQLite, nil
	case StoreNoop:
		return StoreNoop, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported MESSAGE_STORE %q (allowed: mongo, sql, sqlite, noop)", explicit)
	}

	if mongoURI != "" {
		return StoreMongo, nil
	}
	if postgres {
		return StoreSQL, nil
	}
	return StoreNoop, nil
}

// UsesSQL reports whether the backend needs a gorm connection.
func (b StoreBackend) UsesSQL() bool {
	return b == StoreSQL || b == StoreSQLite
}

func postgresConfigured() bool {
	if sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", "")) != "" {
		return true
	}
	return sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", "")) != ""
}

package config

import (
	"io"
	"testing"

	"github.com/akeren/portfolio-api/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStoreBackend(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		mongoURI string
		postgres bool
		want     StoreBackend
	}{
		{name: "nothing configured", want: StoreNoop},
		{name: "mongo uri inferred", mongoURI: "mongodb://localhost:27017", want: StoreMongo},
		{name: "postgres inferred", postgres: true, want: StoreSQL},
		{name: "mongo wins over postgres", mongoURI: "mongodb://localhost:27017", postgres: true, want: StoreMongo},
		{name: "explicit sqlite", explicit: "sqlite", mongoURI: "mongodb://localhost:27017", want: StoreSQLite},
		{name: "explicit noop", explicit: " NOOP ", postgres: true, want: StoreNoop},
		{name: "explicit sql", explicit: "sql", want: StoreSQL},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveStoreBackend(tc.explicit, tc.mongoURI, tc.postgres)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveStoreBackend_Errors(t *testing.T) {
	_, err := ResolveStoreBackend("mongo", "", false)
	assert.Error(t, err)

	_, err = ResolveStoreBackend("dynamo", "", false)
	assert.Error(t, err)
}

func TestNewStoreConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("MESSAGE_STORE", "")
	t.Setenv("APP_DATABASE_URL", "")
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DB", "")
	t.Setenv("SQLITE_PATH", "")

	cfg, err := NewStoreConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreMongo, cfg.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "portfolio", cfg.MongoDatabase)
	assert.Equal(t, "portfolio.db", cfg.SQLitePath)
}

func TestStoreBackend_UsesSQL(t *testing.T) {
	assert.True(t, StoreSQL.UsesSQL())
	assert.True(t, StoreSQLite.UsesSQL())
	assert.False(t, StoreMongo.UsesSQL())
	assert.False(t, StoreNoop.UsesSQL())
}

func TestNewSQLiteDatabase_InMemory(t *testing.T) {
	db, err := NewSQLiteDatabase(testLogger(), ":memory:")
	require.NoError(t, err)
	defer CloseDatabase(db, testLogger())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func testLogger() *log.Logger {
	return log.NewLogger(io.Discard)
}

func TestCacheConfig_FromEnvironment(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_DB", "")

	cfg := NewCacheConfig()
	assert.False(t, cfg.IsConfigured())
	assert.Nil(t, cfg.NewCacheOrNil(testLogger()))

	_, err := cfg.NewCache(testLogger())
	assert.ErrorIs(t, err, ErrCacheNotConfigured)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_DB", "2")

	cfg = NewCacheConfig()
	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, "6379", cfg.Port)
}

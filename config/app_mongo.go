package config

import (
	"context"
	"fmt"
	"time"

	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/pkg/retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type MongoStore struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoStore connects and pings the primary. The ping is retried with backoff
// because the cluster may still be starting alongside the API.
func NewMongoStore(ctx context.Context, logger *log.Logger, cfg *StoreConfig) (*MongoStore, error) {
	if cfg == nil || cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongo: MONGODB_URI is not set")
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(5 * time.Second))
	if err != nil {
		logger.Error("Failed to create MongoDB client", "error", err)
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	backoff := retry.NewExponentialBackoff(&retry.Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	})

	err = backoff.ExecuteContext(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		logger.Error("MongoDB ping failed", "error", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	logger.Info("MongoDB connection established successfully", "database", cfg.MongoDatabase)

	return &MongoStore{
		Client:   client,
		Database: client.Database(cfg.MongoDatabase),
	}, nil
}

func CloseMongoStore(store *MongoStore, logger *log.Logger) {
	if store == nil || store.Client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Client.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect MongoDB", "error", err)
		return
	}
	logger.Info("MongoDB connection closed")
}

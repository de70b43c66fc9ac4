package config

import (
	"context"
	"strconv"
	"time"

	"github.com/akeren/portfolio-api/config/router"
	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/internal/models"
	"github.com/akeren/portfolio-api/pkg/constants"
	"github.com/akeren/portfolio-api/pkg/factory"
	"github.com/akeren/portfolio-api/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	// DB is set only for the sql and sqlite message stores.
	DB              *gorm.DB
	Mongo           *MongoStore
	Store           *StoreConfig
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	Factories       *factory.FactoryContainer
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

// NewAppConfig reads the router-wide limits and request timeout. Invalid or
// non-positive values keep the defaults.
func NewAppConfig() *AppConfig {
	config := &AppConfig{
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   constants.DefaultRateLimitWindow(),
		RequestTimeout:    router.DefaultTimeoutDuration,
	}

	if parsed, err := strconv.Atoi(utils.GetEnvTrimmed("RATE_LIMIT_REQUESTS")); err == nil && parsed > 0 {
		config.RateLimitRequests = parsed
	}
	config.RateLimitWindow = positiveDurationEnv("RATE_LIMIT_WINDOW", config.RateLimitWindow)
	config.RequestTimeout = positiveDurationEnv("REQUEST_TIMEOUT", config.RequestTimeout)

	return config
}

func positiveDurationEnv(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(utils.GetEnvTrimmed(key))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.Mongo != nil {
		CloseMongoStore(ac.Mongo, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	storeCfg, err := NewStoreConfig()
	if err != nil {
		return nil, err
	}
	logger.Info("Message store selected", "backend", storeCfg.Backend)

	appConfig := &ApplicationConfig{
		Logger:          logger,
		Store:           storeCfg,
		Config:          NewAppConfig(),
		TracingShutdown: tracingShutdown,
	}

	if err := appConfig.openMessageStore(logger, autoMigrate); err != nil {
		appConfig.Cleanup()
		return nil, err
	}

	appConfig.Cache = NewCacheConfig().NewCacheOrNil(logger)

	appConfig.Factories = factory.NewFactoryContainer(
		&factory.RateLimitConfig{
			Requests: appConfig.Config.RateLimitRequests,
			Window:   appConfig.Config.RateLimitWindow,
			Logger:   logger,
		},
		&factory.RateLimitConfig{
			Requests: constants.ContactRateLimitRequests,
			Window:   constants.ContactRateLimitWindow(),
			Logger:   logger,
		},
		appConfig.Cache,
	)

	appConfig.RouterService = router.CreateRouterService(logger, appConfig.Cache, &router.RouterConfig{
		RateLimitRequests: appConfig.Config.RateLimitRequests,
		RateLimitWindow:   appConfig.Config.RateLimitWindow,
		RequestTimeout:    appConfig.Config.RequestTimeout,
		RateLimiter:       appConfig.Factories.RateLimiterFactory.CreateRateLimiter(),
	})

	logger.Info("Application configuration loaded successfully")

	return appConfig, nil
}

func (ac *ApplicationConfig) openMessageStore(logger *log.Logger, autoMigrate bool) error {
	switch ac.Store.Backend {
	case StoreMongo:
		mongoStore, err := NewMongoStore(context.Background(), logger, ac.Store)
		if err != nil {
			return err
		}
		ac.Mongo = mongoStore
	case StoreSQL, StoreSQLite:
		var (
			db  *gorm.DB
			err error
		)
		if ac.Store.Backend == StoreSQLite {
			db, err = NewSQLiteDatabase(logger, ac.Store.SQLitePath)
		} else {
			db, err = NewDatabase(logger, nil)
		}
		if err != nil {
			return err
		}
		ac.DB = db

		if autoMigrate {
			if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
				return err
			}
		}
	default:
		if autoMigrate {
			logger.Warn("--auto-migrate ignored; the message store has no schema", "backend", ac.Store.Backend)
		}
	}

	return nil
}

package contact

import (
	"fmt"

	"github.com/akeren/portfolio-api/config"
	"github.com/akeren/portfolio-api/config/router"
	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/pkg/circuitbreaker"
	"github.com/akeren/portfolio-api/pkg/constants"
	"github.com/akeren/portfolio-api/pkg/ratelimit"
)

type ContactServiceFactory interface {
	CreateRepository() (MessageRepository, error)
	CreateLimiter() ratelimit.RateLimiter
	CreateController(repository MessageRepository) *router.RESTController
}

type DefaultContactServiceFactory struct {
	appConfig *config.ApplicationConfig
	logger    *log.Logger
}

func NewContactServiceFactory(appConfig *config.ApplicationConfig) ContactServiceFactory {
	return &DefaultContactServiceFactory{
		appConfig: appConfig,
		logger:    appConfig.Logger,
	}
}

// CreateRepository picks the store chosen at startup and guards it with a circuit
// breaker. The noop store is never wrapped.
func (f *DefaultContactServiceFactory) CreateRepository() (MessageRepository, error) {
	if f.appConfig.Store == nil {
		return NewNoopMessageRepository(f.logger), nil
	}

	var repository MessageRepository

	switch f.appConfig.Store.Backend {
	case config.StoreMongo:
		if f.appConfig.Mongo == nil {
			return nil, fmt.Errorf("contact: mongo store selected but not connected")
		}
		repository = NewMongoMessageRepository(f.appConfig.Mongo.Database)
	case config.StoreSQL, config.StoreSQLite:
		if f.appConfig.DB == nil {
			return nil, fmt.Errorf("contact: %s store selected but no database is open", f.appConfig.Store.Backend)
		}
		repository = NewSQLMessageRepository(f.appConfig.DB)
	default:
		return NewNoopMessageRepository(f.logger), nil
	}

	return NewBreakerRepository(repository, circuitbreaker.NewCircuitBreaker(nil)), nil
}

// CreateLimiter returns the per-client fixed window limiter for submissions.
func (f *DefaultContactServiceFactory) CreateLimiter() ratelimit.RateLimiter {
	if f.appConfig.Factories == nil || f.appConfig.Factories.ContactLimiterFactory == nil {
		return ratelimit.NewFixedWindowLimiter(&ratelimit.RateLimitConfig{
			Requests: constants.ContactRateLimitRequests,
			Window:   constants.ContactRateLimitWindow(),
		})
	}
	return f.appConfig.Factories.ContactLimiterFactory.CreateRateLimiter()
}

func (f *DefaultContactServiceFactory) CreateController(repository MessageRepository) *router.RESTController {
	return NewContactController(f.logger, repository, f.CreateLimiter())
}

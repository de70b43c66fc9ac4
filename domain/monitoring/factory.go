package monitoring

import (
	"github.com/akeren/portfolio-api/config/router"
	"github.com/akeren/portfolio-api/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	store        Pinger
	storeBackend string
	logger       *log.Logger
	cache        Pinger
}

func NewMonitoringControllerFactory(store Pinger, storeBackend string, logger *log.Logger, cache Pinger) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		store:        store,
		storeBackend: storeBackend,
		logger:       logger,
		cache:        cache,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.store, f.storeBackend, f.logger, f.cache)
}

package domain

import (
	"github.com/akeren/portfolio-api/config"
	"github.com/akeren/portfolio-api/domain/contact"
	"github.com/akeren/portfolio-api/domain/monitoring"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	contactFactory := contact.NewContactServiceFactory(appConfig)

	repository, err := contactFactory.CreateRepository()
	if err != nil {
		return err
	}

	backend := string(config.StoreNoop)
	if appConfig.Store != nil {
		backend = string(appConfig.Store.Backend)
	}

	var cache monitoring.Pinger
	if appConfig.Cache != nil {
		cache = appConfig.Cache
	}

	monitoringFactory := monitoring.NewMonitoringControllerFactory(repository, backend, appConfig.Logger, cache)

	appConfig.RouterService.MountController(monitoringFactory.CreateController())
	appConfig.RouterService.MountController(contactFactory.CreateController(repository))

	return nil
}

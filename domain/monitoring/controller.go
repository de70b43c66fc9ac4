package monitoring

import (
	"context"
	"time"

	"github.com/akeren/portfolio-api/config/router"
	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/pkg/ratelimit"
)

// Pinger is satisfied by the message store and the cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Store        int    `json:"store"` // 1 = healthy, 0 = unhealthy
	StoreBackend string `json:"store_backend"`
	Cache        int    `json:"cache"`  // 1 = healthy, 0 = unhealthy/not configured
	Uptime       int    `json:"uptime"` // seconds
}

type MonitoringController struct {
	store        Pinger
	storeBackend string
	logger       *log.Logger
	cache        Pinger
	startTime    time.Time
}

func NewMonitoringController(store Pinger, storeBackend string, logger *log.Logger, cache Pinger) *router.RESTController {
	ctrl := &MonitoringController{
		store:        store,
		storeBackend: storeBackend,
		logger:       logger,
		cache:        cache,
		startTime:    time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			monitoringRateLimiter := createMonitoringRateLimiter()

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.monitor(c)
			})

			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func createMonitoringRateLimiter() ratelimit.RateLimiter {
	const monitoringRequestsPerMinute = 10

	return ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests: monitoringRequestsPerMinute,
		Window:   time.Minute,
	})
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	return router.OKResult(ctrl.performHealthChecks(ctx, logger), "portfolio-api health check completed")
}

func (ctrl *MonitoringController) monitor(c *router.RequestContext) *router.ServiceResult {
	return router.OKResult("Monitoring endpoint is operational.", "Monitoring successful")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		StoreBackend: ctrl.storeBackend,
		Uptime:       int(time.Since(ctrl.startTime).Seconds()),
	}

	status.Store = ping(ctx, ctrl.store, "Message store", logger)
	status.Cache = ping(ctx, ctrl.cache, "Cache", logger)

	return status
}

func ping(ctx context.Context, target Pinger, name string, logger *log.Logger) int {
	if target == nil {
		logger.Info(name + " not configured, health check skipped")
		return 0
	}

	if err := target.Ping(ctx); err != nil {
		logger.Error(name+" health check failed", "error", err)
		return 0
	}

	logger.Info(name + " health check passed")
	return 1
}

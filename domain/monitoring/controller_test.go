package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/portfolio-api/config/router"
	"github.com/akeren/portfolio-api/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func serveHealth(t *testing.T, store, cache Pinger) HealthStatus {
	t.Helper()

	logger := log.NewLogger(io.Discard)
	rs := router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	rs.MountController(NewMonitoringControllerFactory(store, "sqlite", logger, cache).CreateController())

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestHealth_ReportsHealthyStoreAndCache(t *testing.T) {
	status := serveHealth(t, stubPinger{}, stubPinger{})

	assert.Equal(t, 1, status.Store)
	assert.Equal(t, 1, status.Cache)
	assert.Equal(t, "sqlite", status.StoreBackend)
}

func TestHealth_ReportsFailuresAndMissingCache(t *testing.T) {
	status := serveHealth(t, stubPinger{err: errors.New("down")}, nil)

	assert.Equal(t, 0, status.Store)
	assert.Equal(t, 0, status.Cache)
}

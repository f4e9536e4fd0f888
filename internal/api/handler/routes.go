package handler

import (
	"net/http"

	"github.com/vfg2006/rokt-tap/infrastructure/repository"
	"github.com/vfg2006/rokt-tap/internal/api/handler/router"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/middleware"
)

func Healthcheck(clk clock.Clock) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(clk),
		},
	}
}

func Sync(service SyncTrigger) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync/run",
			Method:      http.MethodPost,
			Handler:     RunSync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/sync/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// CampaignMetrics só é registrado quando o banco está habilitado
func CampaignMetrics(repo repository.CampaignMetricRepository, defaultAccountID string) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/campaign-metrics",
			Method:      http.MethodGet,
			Handler:     GetCampaignMetrics(repo, defaultAccountID),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

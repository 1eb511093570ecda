package common

import (
	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/metrics", s.Metrics.Handler())
}

package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
)

func GetPingRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/ping", getPingHandler(s))
}

func getPingHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	}
}

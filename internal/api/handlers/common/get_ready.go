package common

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/util"
)

// 521 Web Server Is Down
const statusNotReady = 521

const readinessTimeout = 2 * time.Second

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness check
// This endpoint returns 200 when our Service is ready to serve traffic (i.e. respond to queries).
// Does read-only probes apart from the general server ready state.
// Note that /-/ready is typically public (and not shielded by a mgmt-secret), we thus prevent information leakage here and only return `"Ready."`.
// Structured upon https://prometheus.io/docs/prometheus/latest/management_api/
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		if !s.Ready() {
			log.Warn().Msg("Readiness probe failed, server is not fully initialized")
			return c.String(statusNotReady, "Not ready.")
		}

		if s.DB != nil {
			pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
			defer cancel()

			if err := s.DB.PingContext(pingCtx); err != nil {
				log.Warn().Err(err).Msg("Readiness probe failed, database ping failed")
				return c.String(statusNotReady, "Not ready.")
			}
		}

		return c.String(http.StatusOK, "Ready.")
	}
}

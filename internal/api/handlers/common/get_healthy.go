package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/util"
)

const healthTimeout = 5 * time.Second

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Probes the database (when configured) and every configured chain gateway.
// Returns 200 with one line per probe, or 521 if any probe failed.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()
		log := util.LogFromContext(ctx)

		var (
			lines  []string
			failed bool
		)

		if s.DB != nil {
			if err := s.DB.PingContext(ctx); err != nil {
				log.Warn().Err(err).Msg("Health probe failed for database")
				lines = append(lines, "database: unhealthy")
				failed = true
			} else {
				lines = append(lines, "database: ok")
			}
		}

		for _, chainID := range s.Chains.ChainIDs() {
			gw, err := s.Chains.Gateway(chainID)
			if err == nil {
				_, err = gw.FeeData(ctx)
			}
			if err != nil {
				log.Warn().Err(err).Int64("chain_id", chainID).Msg("Health probe failed for chain")
				lines = append(lines, fmt.Sprintf("chain %d: unhealthy", chainID))
				failed = true
				continue
			}
			lines = append(lines, fmt.Sprintf("chain %d: ok", chainID))
		}

		status := http.StatusOK
		if failed {
			status = statusNotReady
		}

		return c.String(status, strings.Join(lines, "\n"))
	}
}

package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/api/handlers/common"
	"github.com/portal-hq/portalex/internal/api/handlers/mobile"
	"github.com/portal-hq/portalex/internal/api/handlers/transfers"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetPingRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		mobile.GetAddressRoute(s),
		mobile.GetBalanceRoute(s),
		mobile.PostRefreshBalanceRoute(s),
		mobile.PostTransferRoute(s),
		transfers.PostTransferRoute(s),
	}
}

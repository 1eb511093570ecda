package mobile

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/types"
)

func GetAddressRoute(s *api.Server) *echo.Route {
	return s.Router.Mobile.GET("/:exchangeUserId/address", getAddressHandler(s))
}

func getAddressHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		exchangeUserID, err := exchangeUserIDParam(c)
		if err != nil {
			return err
		}

		address, err := s.Users.AddressForExchangeUser(ctx, exchangeUserID)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, &types.AddressResponse{Address: address})
	}
}

package mobile

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/types"
	"github.com/portal-hq/portalex/internal/util"
)

func GetBalanceRoute(s *api.Server) *echo.Route {
	return s.Router.Mobile.GET("/:exchangeUserId/balance", getBalanceHandler(s))
}

// 返回交易所热钱包的缓存余额，未缓存时同步查询链上余额
func getBalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		exchangeUserID, err := exchangeUserIDParam(c)
		if err != nil {
			return err
		}

		chainID, err := chainIDOrDefault(s, c.QueryParam("chainId"), nil)
		if err != nil {
			return err
		}

		b, err := s.Balance.Get(ctx, chainID)
		if err != nil {
			return err
		}

		log.Info().
			Int64("exchange_user_id", exchangeUserID).
			Int64("chain_id", chainID).
			Str("balance", b.Amount.String()).
			Msg("Sent exchange balance")

		return c.JSON(http.StatusOK, types.NewBalanceResponse(b))
	}
}

package mobile

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/types"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/portal-hq/portalex/internal/wallet/transfer"
)

func PostTransferRoute(s *api.Server) *echo.Route {
	return s.Router.Mobile.POST("/:exchangeUserId/transfer", postTransferHandler(s))
}

// 从热钱包向用户钱包地址转账
func postTransferHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		exchangeUserID, err := exchangeUserIDParam(c)
		if err != nil {
			return err
		}

		var body types.PostMobileTransferPayload
		if err := util.BindBody(c, &body); err != nil {
			return err
		}

		chainID, err := chainIDOrDefault(s, c.QueryParam("chainId"), body.ChainID)
		if err != nil {
			return err
		}

		amount := s.Config.Transfer.InitAmount
		if body.Amount != nil {
			amount = *body.Amount
		}

		address, err := s.Users.AddressForExchangeUser(ctx, exchangeUserID)
		if err != nil {
			return err
		}

		req := transfer.NewRequest(address, amount, chainID)

		log.Info().
			Int64("exchange_user_id", exchangeUserID).
			Str("request_id", req.ID.String()).
			Str("to", address).
			Str("amount", amount.String()).
			Int64("chain_id", chainID).
			Msg("Transferring funds to user wallet")

		result, err := s.Retry.Transfer(ctx, req)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, &types.TransferResponse{
			RequestID: strfmt.UUID(req.ID.String()),
			TxHash:    result.Hash.Hex(),
			ChainID:   chainID,
			To:        address,
			Amount:    amount.String(),
			Attempts:  types.NewTransferAttempts(result),
		})
	}
}

package transfers

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/api/httperrors"
	"github.com/portal-hq/portalex/internal/types"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/portal-hq/portalex/internal/wallet/transfer"
)

func PostTransferRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Transfers.POST("", postTransferHandler(s))
}

// 向任意地址转账，amount 与 chainId 必填
func postTransferHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostTransferPayload
		if err := util.BindBody(c, &body); err != nil {
			return err
		}

		if body.ChainID == nil {
			return httperrors.ErrBadRequestMissingChainID
		}
		if body.Amount == nil {
			return httperrors.FromTransferError(errors.Wrap(transfer.ErrInvalidAmount, "amount is required"))
		}

		req := transfer.NewRequest(body.To, *body.Amount, *body.ChainID)

		result, err := s.Retry.Transfer(ctx, req)
		if err != nil {
			return err
		}

		log.Info().
			Str("request_id", req.ID.String()).
			Str("tx_hash", result.Hash.Hex()).
			Int("attempts", len(result.Attempts)).
			Msg("Transfer submitted")

		return c.JSON(http.StatusOK, &types.TransferResponse{
			RequestID: strfmt.UUID(req.ID.String()),
			TxHash:    result.Hash.Hex(),
			ChainID:   req.ChainID,
			To:        body.To,
			Amount:    body.Amount.String(),
			Attempts:  types.NewTransferAttempts(result),
		})
	}
}

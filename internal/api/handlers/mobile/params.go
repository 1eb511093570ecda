package mobile

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/api/httperrors"
	"github.com/portal-hq/portalex/internal/wallet/chain"
)

func exchangeUserIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("exchangeUserId"), 10, 64)
	if err != nil {
		return 0, httperrors.ErrBadRequestInvalidExchangeUserID
	}

	return id, nil
}

// chainIDOrDefault 未指定 chainId 时使用默认网络
func chainIDOrDefault(s *api.Server, raw string, explicit *int64) (int64, error) {
	if explicit != nil {
		return *explicit, nil
	}

	if len(raw) > 0 {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, httperrors.ErrBadRequestInvalidChainID
		}
		return id, nil
	}

	id, ok := chain.LookupChainID(s.Config.Chain.DefaultNetwork)
	if !ok {
		return 0, httperrors.ErrBadRequestMissingChainID
	}

	return id, nil
}

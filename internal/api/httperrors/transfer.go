package httperrors

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/data/users"
	"github.com/portal-hq/portalex/internal/wallet"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/portal-hq/portalex/internal/wallet/transfer"
)

// FromTransferError maps wallet and user lookup errors to HTTP errors.
// Errors without a known kind become a 500 that keeps the cause internal.
func FromTransferError(err error) *HTTPError {
	var httpErr *HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, transfer.ErrInvalidAddress):
		httpErr = NewHTTPErrorWithDetail(http.StatusBadRequest, TypeInvalidAddress, "Invalid address.", err.Error())
	case errors.Is(err, transfer.ErrReverseTransferUnsupported):
		httpErr = NewHTTPErrorWithDetail(http.StatusBadRequest, TypeReverseTransfer, "Transfers to the exchange are not supported.", err.Error())
	case errors.Is(err, transfer.ErrInvalidAmount), errors.Is(err, wallet.ErrTooPrecise):
		httpErr = NewHTTPErrorWithDetail(http.StatusBadRequest, TypeInvalidAmount, "Invalid amount.", err.Error())
	case errors.Is(err, chain.ErrUnsupportedChain):
		httpErr = NewHTTPErrorWithDetail(http.StatusBadRequest, TypeUnsupportedChain, "Unsupported chain.", err.Error())
	case errors.Is(err, users.ErrUserNotFound):
		httpErr = NewHTTPError(http.StatusNotFound, TypeUserNotFound, "User not found.")
	case errors.Is(err, users.ErrNoAddress):
		httpErr = NewHTTPErrorWithDetail(http.StatusNotFound, TypeUserWithoutAddress, "User does not have an address.", err.Error())
	case errors.Is(err, transfer.ErrInsufficientBalance):
		httpErr = NewHTTPError(http.StatusConflict, TypeInsufficientBalance, "Insufficient hot wallet balance.")
	case errors.Is(err, transfer.ErrSigningKeyMissing):
		httpErr = NewHTTPError(http.StatusServiceUnavailable, TypeSigningKeyMissing, "Hot wallet cannot sign transfers.")
	default:
		var subErr *transfer.ChainSubmissionError
		if errors.As(err, &subErr) {
			httpErr = NewHTTPError(http.StatusBadGateway, TypeChainSubmission, "Chain submission failed.")
			httpErr.AdditionalData = map[string]interface{}{"kind": subErr.Kind.String(), "chain_id": subErr.ChainID}
			break
		}
		if kind, ok := gateway.KindOf(err); ok {
			httpErr = NewHTTPError(http.StatusBadGateway, TypeChainSubmission, "Chain request failed.")
			httpErr.AdditionalData = map[string]interface{}{"kind": kind.String()}
			break
		}
		httpErr = NewHTTPError(http.StatusInternalServerError, TypeGeneric, http.StatusText(http.StatusInternalServerError))
	}

	httpErr.Internal = err
	return httpErr
}

package transfer

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/wallet"
	"github.com/portal-hq/portalex/internal/wallet/address"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
)

var (
	ErrInvalidAddress             = address.ErrInvalidAddress
	ErrInvalidAmount              = errors.New("invalid amount")
	ErrReverseTransferUnsupported = errors.New("transfers from user wallets to the exchange are not supported")
	ErrInsufficientBalance        = errors.New("insufficient hot wallet balance")
	ErrSigningKeyMissing          = errors.New("hot wallet signing key is missing")
)

// ChainSubmissionError wraps a gateway failure that happened while building or submitting a transaction.
type ChainSubmissionError struct {
	ChainID int64
	Kind    gateway.Kind
	Err     error
}

func (e *ChainSubmissionError) Error() string {
	return fmt.Sprintf("chain %d submission failed (%s): %v", e.ChainID, e.Kind, e.Err)
}

func (e *ChainSubmissionError) Unwrap() error {
	return e.Err
}

func submissionError(chainID int64, err error) error {
	kind, _ := gateway.KindOf(err)
	return &ChainSubmissionError{ChainID: chainID, Kind: kind, Err: err}
}

// IsValidationError reports whether err was caused by the request itself.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrReverseTransferUnsupported) ||
		errors.Is(err, wallet.ErrTooPrecise) ||
		errors.Is(err, chain.ErrUnsupportedChain)
}

package types

import (
	"github.com/go-openapi/strfmt"
	"github.com/portal-hq/portalex/internal/wallet/balance"
	"github.com/portal-hq/portalex/internal/wallet/retry"
	"github.com/shopspring/decimal"
)

// PostMobileTransferPayload amount 缺省时使用 INIT_AMOUNT
type PostMobileTransferPayload struct {
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	ChainID *int64           `json:"chainId,omitempty"`
}

type PostTransferPayload struct {
	To      string           `json:"to"`
	Amount  *decimal.Decimal `json:"amount"`
	ChainID *int64           `json:"chainId"`
}

type BalanceResponse struct {
	Balance         string          `json:"balance"`
	ChainID         int64           `json:"chainId"`
	Address         string          `json:"address"`
	LastRefreshedAt strfmt.DateTime `json:"lastRefreshedAt"`
}

func NewBalanceResponse(b *balance.Balance) *BalanceResponse {
	return &BalanceResponse{
		Balance:         b.Amount.String(),
		ChainID:         b.ChainID,
		Address:         b.Address.Hex(),
		LastRefreshedAt: strfmt.DateTime(b.LastRefreshedAt),
	}
}

type TransferAttemptResponse struct {
	Number      int             `json:"number"`
	Nonce       uint64          `json:"nonce"`
	FeePerGas   string          `json:"feePerGas,omitempty"`
	SubmittedAt strfmt.DateTime `json:"submittedAt"`
	Outcome     string          `json:"outcome"`
	Error       string          `json:"error,omitempty"`
}

type TransferResponse struct {
	RequestID strfmt.UUID               `json:"requestId"`
	TxHash    string                    `json:"txHash"`
	ChainID   int64                     `json:"chainId"`
	To        string                    `json:"to"`
	Amount    string                    `json:"amount"`
	Attempts  []TransferAttemptResponse `json:"attempts"`
}

func NewTransferAttempts(result *retry.Result) []TransferAttemptResponse {
	attempts := make([]TransferAttemptResponse, 0, len(result.Attempts))
	for _, a := range result.Attempts {
		item := TransferAttemptResponse{
			Number:      a.Number,
			Nonce:       a.Nonce,
			SubmittedAt: strfmt.DateTime(a.SubmittedAt),
			Outcome:     a.Outcome.String(),
		}
		if perGas := a.Fee.PerGas(); perGas != nil {
			item.FeePerGas = perGas.String()
		}
		if a.Err != nil {
			item.Error = a.Err.Error()
		}
		attempts = append(attempts, item)
	}

	return attempts
}

type AddressResponse struct {
	Address string `json:"address"`
}

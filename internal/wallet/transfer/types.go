package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/portal-hq/portalex/internal/wallet/fee"
	"github.com/shopspring/decimal"
)

// Request 一次原生币转账请求，金额以原生单位计
type Request struct {
	ID      uuid.UUID
	To      string
	Amount  decimal.Decimal
	ChainID int64
}

// NewRequest assigns a fresh request id.
func NewRequest(to string, amount decimal.Decimal, chainID int64) *Request {
	return &Request{
		ID:      uuid.New(),
		To:      to,
		Amount:  amount,
		ChainID: chainID,
	}
}

// Attempt describes one submission of a request.
// Number and Previous are set by the caller, the rest is filled by Execute.
type Attempt struct {
	RequestID uuid.UUID
	Number    int
	// Previous 同一请求上一次尝试使用的手续费
	Previous *fee.Params

	Fee         *fee.Params
	Nonce       uint64
	Pending     uint64
	SubmittedAt time.Time
}

package balance

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrNotCached = errors.New("balance not cached")

// Balance 某条链上热钱包的最近一次余额
type Balance struct {
	ChainID         int64
	Address         common.Address
	Wei             *big.Int
	Amount          decimal.Decimal // 原生币单位
	LastRefreshedAt time.Time
}

// Store 余额缓存的存储后端
type Store interface {
	// Get returns ErrNotCached when no entry exists.
	Get(ctx context.Context, chainID int64, address common.Address) (*Balance, error)
	Put(ctx context.Context, balance *Balance) error
}

package wallet

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// EtherDecimals 原生币（ETH）精度
	EtherDecimals = 18
	// GweiDecimals gwei 相对 wei 的精度
	GweiDecimals = 9
)

var ErrTooPrecise = errors.New("amount has more precision than the smallest unit")

// EtherToWei converts a native-unit amount to wei.
// Amounts with more than 18 decimal places cannot be represented and are rejected.
func EtherToWei(amount decimal.Decimal) (*big.Int, error) {
	return shiftToInt(amount, EtherDecimals)
}

// GweiToWei converts a gwei amount to wei.
func GweiToWei(amount decimal.Decimal) (*big.Int, error) {
	return shiftToInt(amount, GweiDecimals)
}

func WeiToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals)
}

func WeiToGwei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -GweiDecimals)
}

func shiftToInt(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	shifted := amount.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, errors.Wrapf(ErrTooPrecise, "%s", amount.String())
	}
	return shifted.BigInt(), nil
}

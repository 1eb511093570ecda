package gateway

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// NonceLevel 指定读取 nonce 时使用的区块标签
type NonceLevel string

const (
	NonceLatest  NonceLevel = "latest"
	NoncePending NonceLevel = "pending"
)

func ParseNonceLevel(s string) (NonceLevel, error) {
	switch NonceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case NonceLatest:
		return NonceLatest, nil
	case NoncePending:
		return NoncePending, nil
	default:
		return "", errors.Errorf("unknown nonce level %q", s)
	}
}

// FeeData 当前网络的手续费数据
// BaseFee 与 PriorityFee 仅在支持 EIP-1559 的链上存在
type FeeData struct {
	BaseFee     *big.Int
	PriorityFee *big.Int
	GasPrice    *big.Int
}

// DynamicFee reports whether the chain exposes an EIP-1559 base fee.
func (f *FeeData) DynamicFee() bool {
	return f != nil && f.BaseFee != nil
}

// Gateway 单条链的 RPC 抽象
// 所有方法返回的错误都是 *Error，已在边界完成分类
type Gateway interface {
	ChainID() int64
	Balance(ctx context.Context, address common.Address) (*big.Int, error)
	FeeData(ctx context.Context) (*FeeData, error)
	Nonce(ctx context.Context, address common.Address, level NonceLevel) (uint64, error)
	Submit(ctx context.Context, tx *types.Transaction) (common.Hash, error)
}

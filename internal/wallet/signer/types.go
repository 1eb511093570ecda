package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/portal-hq/portalex/internal/wallet/fee"
)

// TransferRequest 原生币转账的签名参数
type TransferRequest struct {
	ChainID  int64          // Chain ID (1 for Ethereum mainnet, 11155111 for Sepolia, etc.)
	Nonce    uint64         // Transaction nonce
	To       common.Address // Recipient address
	Value    *big.Int       // Amount in wei
	GasLimit uint64         // Gas limit
	Fee      *fee.Params    // EIP-1559 fee caps or legacy gas price
}

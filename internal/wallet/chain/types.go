package chain

import (
	"math/big"

	"github.com/portal-hq/portalex/internal/wallet/gateway"
)

// Network 一条受支持链的网络参数
type Network struct {
	ChainID  int64
	Name     string
	RPCURLs  []string
	FeeFloor *big.Int // wei per gas
}

// Chain 网络参数与对应的 Gateway
type Chain struct {
	Network
	Gateway gateway.Gateway
}

type knownNetwork struct {
	chainID       int64
	alchemyHost   string
	publicRPCURLs []string
}

// knownNetworks 按名称索引的内置网络表
var knownNetworks = map[string]knownNetwork{
	"mainnet":          {1, "eth-mainnet", []string{"https://ethereum-rpc.publicnode.com"}},
	"sepolia":          {11155111, "eth-sepolia", []string{"https://ethereum-sepolia-rpc.publicnode.com"}},
	"holesky":          {17000, "eth-holesky", []string{"https://ethereum-holesky-rpc.publicnode.com"}},
	"polygon":          {137, "polygon-mainnet", []string{"https://polygon-bor-rpc.publicnode.com"}},
	"polygon-amoy":     {80002, "polygon-amoy", []string{"https://polygon-amoy-bor-rpc.publicnode.com"}},
	"base":             {8453, "base-mainnet", []string{"https://base-rpc.publicnode.com"}},
	"base-sepolia":     {84532, "base-sepolia", []string{"https://base-sepolia-rpc.publicnode.com"}},
	"arbitrum":         {42161, "arb-mainnet", []string{"https://arbitrum-one-rpc.publicnode.com"}},
	"optimism":         {10, "opt-mainnet", []string{"https://optimism-rpc.publicnode.com"}},
	"bsc":              {56, "", []string{"https://bsc-rpc.publicnode.com"}},
	"homestead":        {1, "eth-mainnet", []string{"https://ethereum-rpc.publicnode.com"}},
	"matic":            {137, "polygon-mainnet", []string{"https://polygon-bor-rpc.publicnode.com"}},
	"arbitrum-sepolia": {421614, "arb-sepolia", []string{"https://arbitrum-sepolia-rpc.publicnode.com"}},
}

// LookupChainID resolves a network name such as "sepolia" to its chain id.
func LookupChainID(name string) (int64, bool) {
	n, ok := knownNetworks[name]
	return n.chainID, ok
}

package chain

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/wallet"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/rs/zerolog/log"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

// Registry 按 chain_id 管理各链的 Gateway
// 未注册的链直接返回 ErrUnsupportedChain，不回退到默认网络
type Registry struct {
	mu     sync.RWMutex
	chains map[int64]*Chain
}

func NewRegistry() *Registry {
	return &Registry{chains: make(map[int64]*Chain)}
}

// Register adds or replaces the chain for network.ChainID.
func (r *Registry) Register(network Network, gw gateway.Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chains[network.ChainID] = &Chain{Network: network, Gateway: gw}
}

// Lookup 获取链配置
func (r *Registry) Lookup(chainID int64) (*Chain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chains[chainID]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedChain, "chain id %d is not configured", chainID)
	}

	return c, nil
}

// Gateway 获取链的 RPC 抽象
func (r *Registry) Gateway(chainID int64) (gateway.Gateway, error) {
	c, err := r.Lookup(chainID)
	if err != nil {
		return nil, err
	}

	return c.Gateway, nil
}

// ChainIDs returns the configured chain ids in ascending order.
func (r *Registry) ChainIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Close closes every gateway that holds connections.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.chains {
		if closer, ok := c.Gateway.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

// Dial 为每个网络建立 RPC 客户端
func Dial(networks []Network) (*Registry, error) {
	registry := NewRegistry()

	for _, n := range networks {
		client, err := gateway.NewRPCClient(n.ChainID, n.RPCURLs)
		if err != nil {
			registry.Close()
			return nil, errors.Wrapf(err, "failed to dial network %s", n.Name)
		}
		registry.Register(n, client)

		log.Info().
			Int64("chain_id", n.ChainID).
			Str("network", n.Name).
			Int("rpc_urls", len(n.RPCURLs)).
			Str("fee_floor_gwei", wallet.WeiToGwei(n.FeeFloor).String()).
			Msg("Chain gateway registered")
	}

	return registry, nil
}

// NetworksFromConfig 合并 TOML 网络文件与 ETH_NETWORK 默认网络
func NetworksFromConfig(cfg config.Server) ([]Network, error) {
	defaultFloor, err := wallet.GweiToWei(cfg.Transfer.FeeFloorGwei)
	if err != nil {
		return nil, errors.Wrap(err, "invalid fee floor")
	}

	networks := make([]Network, 0, len(cfg.Chain.Networks)+1)
	seen := make(map[int64]struct{})

	for _, n := range cfg.Chain.Networks {
		floor := defaultFloor
		if n.FeeFloorGwei != nil {
			floor, err = wallet.GweiToWei(*n.FeeFloorGwei)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid fee floor for network %s", n.Name)
			}
		}

		urls := n.RPCURLs
		if len(urls) == 0 {
			urls = defaultRPCURLs(n.Name, cfg.Chain.AlchemyAPIKey)
		}
		if len(urls) == 0 {
			return nil, errors.Errorf("network %s has no RPC URLs", n.Name)
		}

		networks = append(networks, Network{
			ChainID:  n.ChainID,
			Name:     n.Name,
			RPCURLs:  urls,
			FeeFloor: new(big.Int).Set(floor),
		})
		seen[n.ChainID] = struct{}{}
	}

	name := cfg.Chain.DefaultNetwork
	if name == "" {
		return networks, nil
	}

	chainID, ok := LookupChainID(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedChain, "unknown network %q", name)
	}
	if _, ok := seen[chainID]; ok {
		return networks, nil
	}

	urls := cfg.Chain.RPCURLs
	if len(urls) == 0 {
		urls = defaultRPCURLs(name, cfg.Chain.AlchemyAPIKey)
	}

	networks = append(networks, Network{
		ChainID:  chainID,
		Name:     name,
		RPCURLs:  urls,
		FeeFloor: new(big.Int).Set(defaultFloor),
	})

	return networks, nil
}

// defaultRPCURLs 优先使用 Alchemy，否则使用公共节点
func defaultRPCURLs(name string, alchemyAPIKey string) []string {
	known, ok := knownNetworks[name]
	if !ok {
		return nil
	}

	if alchemyAPIKey != "" && known.alchemyHost != "" {
		return []string{fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", known.alchemyHost, alchemyAPIKey)}
	}

	return known.publicRPCURLs
}

package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Network 单条链的网络配置，可来自 TOML 文件
//
//	[[network]]
//	name = "sepolia"
//	chain_id = 11155111
//	rpc_urls = ["https://rpc.sepolia.org"]
//	fee_floor_gwei = "25"
type Network struct {
	Name         string           `toml:"name"`
	ChainID      int64            `toml:"chain_id"`
	RPCURLs      []string         `toml:"rpc_urls"`
	FeeFloorGwei *decimal.Decimal `toml:"fee_floor_gwei"`
}

type networksFile struct {
	Network []Network `toml:"network"`
}

func LoadNetworksFile(path string) ([]Network, error) {
	var file networksFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to decode networks file %s", path)
	}

	return validateNetworks(file.Network)
}

func DecodeNetworks(data string) ([]Network, error) {
	var file networksFile
	if _, err := toml.Decode(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to decode networks")
	}

	return validateNetworks(file.Network)
}

func validateNetworks(networks []Network) ([]Network, error) {
	seen := make(map[int64]struct{}, len(networks))
	for _, n := range networks {
		if n.ChainID <= 0 {
			return nil, errors.Errorf("network %q has invalid chain_id %d", n.Name, n.ChainID)
		}
		if _, ok := seen[n.ChainID]; ok {
			return nil, errors.Errorf("duplicate network for chain_id %d", n.ChainID)
		}
		seen[n.ChainID] = struct{}{}
	}

	return networks, nil
}

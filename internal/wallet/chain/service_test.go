package chain_test

import (
	"testing"

	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/test"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	registry := chain.NewRegistry()
	gw := test.NewFakeGateway(11155111)
	registry.Register(chain.Network{ChainID: 11155111, Name: "sepolia", FeeFloor: test.Gwei(25)}, gw)

	c, err := registry.Lookup(11155111)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", c.Name)
	assert.Equal(t, test.Gwei(25), c.FeeFloor)
	assert.Same(t, gw, c.Gateway)

	_, err = registry.Gateway(1)
	require.ErrorIs(t, err, chain.ErrUnsupportedChain)
	assert.Contains(t, err.Error(), "chain id 1")

	assert.Equal(t, []int64{11155111}, registry.ChainIDs())
}

func TestNetworksFromConfigDefaultNetwork(t *testing.T) {
	cfg := config.Server{
		Transfer: config.Transfer{FeeFloorGwei: decimal.NewFromInt(25)},
		Chain: config.Chain{
			DefaultNetwork: "sepolia",
			AlchemyAPIKey:  "abc",
		},
	}

	networks, err := chain.NetworksFromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, networks, 1)

	assert.Equal(t, int64(11155111), networks[0].ChainID)
	assert.Equal(t, []string{"https://eth-sepolia.g.alchemy.com/v2/abc"}, networks[0].RPCURLs)
	assert.Equal(t, test.Gwei(25), networks[0].FeeFloor)
}

func TestNetworksFromConfigFileOverridesDefault(t *testing.T) {
	floor := decimal.RequireFromString("1.5")
	cfg := config.Server{
		Transfer: config.Transfer{FeeFloorGwei: decimal.NewFromInt(25)},
		Chain: config.Chain{
			DefaultNetwork: "sepolia",
			RPCURLs:        []string{"http://127.0.0.1:8545"},
			Networks: []config.Network{
				{Name: "sepolia", ChainID: 11155111, RPCURLs: []string{"http://10.0.0.1:8545"}},
				{Name: "polygon", ChainID: 137, FeeFloorGwei: &floor},
			},
		},
	}

	networks, err := chain.NetworksFromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, networks, 2)

	assert.Equal(t, []string{"http://10.0.0.1:8545"}, networks[0].RPCURLs)
	assert.Equal(t, test.Gwei(25), networks[0].FeeFloor)
	assert.Equal(t, "1500000000", networks[1].FeeFloor.String())
	assert.NotEmpty(t, networks[1].RPCURLs)
}

func TestNetworksFromConfigUnknownNetwork(t *testing.T) {
	cfg := config.Server{
		Transfer: config.Transfer{FeeFloorGwei: decimal.NewFromInt(25)},
		Chain:    config.Chain{DefaultNetwork: "ropsten"},
	}

	_, err := chain.NetworksFromConfig(cfg)
	require.ErrorIs(t, err, chain.ErrUnsupportedChain)
}

func TestDialRegistersRPCClients(t *testing.T) {
	registry, err := chain.Dial([]chain.Network{
		{ChainID: 11155111, Name: "sepolia", RPCURLs: []string{"http://127.0.0.1:1"}, FeeFloor: test.Gwei(25)},
	})
	require.NoError(t, err)
	defer registry.Close()

	gw, err := registry.Gateway(11155111)
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), gw.ChainID())
}

package config_test

import (
	"encoding/json"
	"testing"

	"github.com/portal-hq/portalex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestServiceEnvHidesSecrets(t *testing.T) {
	t.Setenv("EXCHANGE_WALLET_PRIVATE_KEY", "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	t.Setenv("PGPASSWORD", "supersecret")

	cfg := config.DefaultServiceConfigFromEnv()
	require.NotEmpty(t, cfg.HotWallet.PrivateKey)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "4c0883a69102937d")
	assert.NotContains(t, string(out), "supersecret")
}

func TestTransferDefaults(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, int64(200), cfg.Transfer.FeePremiumPercent)
	assert.Equal(t, int64(20), cfg.Transfer.FeeEscalationPercent)
	assert.Equal(t, "25", cfg.Transfer.FeeFloorGwei.String())
	assert.Equal(t, uint64(21000), cfg.Transfer.GasLimit)
	assert.Equal(t, 10, cfg.Transfer.MaxAttempts)
	assert.Equal(t, "0.01", cfg.Transfer.InitAmount.String())
	assert.Equal(t, "sepolia", cfg.Chain.DefaultNetwork)
	assert.Equal(t, config.BalanceStoreMemory, cfg.BalanceCache.Store)
}

func TestDecodeNetworks(t *testing.T) {
	networks, err := config.DecodeNetworks(`
[[network]]
name = "sepolia"
chain_id = 11155111
rpc_urls = ["http://127.0.0.1:8545", "http://127.0.0.1:8546"]
fee_floor_gwei = "25"

[[network]]
name = "polygon"
chain_id = 137
rpc_urls = ["http://127.0.0.1:8547"]
`)
	require.NoError(t, err)
	require.Len(t, networks, 2)

	assert.Equal(t, int64(11155111), networks[0].ChainID)
	assert.Len(t, networks[0].RPCURLs, 2)
	require.NotNil(t, networks[0].FeeFloorGwei)
	assert.Equal(t, "25", networks[0].FeeFloorGwei.String())
	assert.Nil(t, networks[1].FeeFloorGwei)

	_, err = config.DecodeNetworks(`
[[network]]
name = "a"
chain_id = 1
[[network]]
name = "b"
chain_id = 1
`)
	require.Error(t, err)
}

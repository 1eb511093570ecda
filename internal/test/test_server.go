package test

import (
	"context"
	"testing"
	"time"

	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/api/router"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/wallet/chain"
)

const (
	// hardhat default account #0
	HotWalletPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	HotWalletAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	SepoliaChainID int64 = 11155111
)

// DefaultTestConfig returns the env config with a fixed hot wallet and fast retries.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.HotWallet = config.HotWallet{
		Address:        HotWalletAddress,
		PrivateKey:     HotWalletPrivateKey,
		DerivationPath: config.DefaultDerivationPath,
	}
	cfg.Chain.DefaultNetwork = config.DefaultNetwork
	cfg.BalanceCache.Store = config.BalanceStoreMemory
	cfg.Transfer.RetryDelay = 10 * time.Millisecond
	cfg.Transfer.MaxAttempts = 3
	cfg.Transfer.NonceLevel = "pending"

	return cfg
}

// WithTestServer returns a fully configured server without a database.
// Sepolia is served by a FakeGateway holding 1 ether for the hot wallet,
// and users are resolved through FakeUsers.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, DefaultTestConfig(), func(s *api.Server, _ *FakeGateway, _ *FakeUsers) {
		closure(s)
	})
}

// WithTestServerGateway is WithTestServer with access to the fakes behind it.
func WithTestServerGateway(t *testing.T, closure func(s *api.Server, gw *FakeGateway, users *FakeUsers)) {
	t.Helper()

	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server, gw *FakeGateway, users *FakeUsers)) {
	t.Helper()

	s, err := api.InitNewServerWithDB(cfg, nil, t)
	if err != nil {
		t.Fatalf("failed to init server: %v", err)
	}

	users := NewFakeUsers()
	s.Users = users

	gw := NewFakeGateway(SepoliaChainID)
	gw.SetBalance(s.HotWallet.Address(), Ether(1))
	s.Chains.Register(chain.Network{
		ChainID:  SepoliaChainID,
		Name:     config.DefaultNetwork,
		FeeFloor: Gwei(25),
	}, gw)

	if err := router.Init(s); err != nil {
		t.Fatalf("failed to init router: %v", err)
	}

	closure(s, gw, users)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("failed to shutdown server: %v", errs)
	}
}

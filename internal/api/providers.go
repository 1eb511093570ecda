package api

import (
	"database/sql"
	"testing"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/data/users"
	"github.com/portal-hq/portalex/internal/metrics"
	"github.com/portal-hq/portalex/internal/wallet/balance"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/portal-hq/portalex/internal/wallet/fee"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/portal-hq/portalex/internal/wallet/hotwallet"
	"github.com/portal-hq/portalex/internal/wallet/retry"
	"github.com/portal-hq/portalex/internal/wallet/transfer"
	"github.com/rs/zerolog/log"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirements for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NoTest() []*testing.T {
	return nil
}

func NewDB(cfg config.Server) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func NewMetrics(cfg config.Server, db *sql.DB) (*metrics.Service, error) {
	return metrics.New(cfg, db)
}

//nolint:ireturn
func NewUsers(db *sql.DB) UserService {
	// 避免把 nil *sql.DB 包装成非 nil 接口
	if db == nil {
		return users.NewService(nil)
	}
	return users.NewService(db)
}

func NewHotWallet(cfg config.Server) (*hotwallet.Wallet, error) {
	return hotwallet.Load(cfg.HotWallet)
}

// NewChainRegistry dials every configured network. Test servers start with an empty
// registry and register fake gateways themselves.
func NewChainRegistry(cfg config.Server, t ...*testing.T) (*chain.Registry, error) {
	if len(t) > 0 && t[0] != nil {
		return chain.NewRegistry(), nil
	}

	networks, err := chain.NetworksFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return chain.Dial(networks)
}

//nolint:ireturn
func NewBalanceStore(cfg config.Server, db *sql.DB) (balance.Store, error) {
	switch cfg.BalanceCache.Store {
	case config.BalanceStorePostgres:
		if db == nil {
			return nil, errors.New("postgres balance store requires a database")
		}
		return balance.NewPostgresStore(boil.ContextExecutor(db)), nil
	default:
		return balance.NewMemoryStore(), nil
	}
}

//nolint:ireturn
func NewBalanceService(
	store balance.Store,
	chains *chain.Registry,
	hotWallet *hotwallet.Wallet,
	clock time2.Clock,
	metricsService *metrics.Service,
) BalanceService {
	return balance.NewService(store, chains, hotWallet.Address(), clock, metricsService)
}

func NewFeeStrategy(cfg config.Server) (*fee.Strategy, error) {
	return fee.NewStrategy(cfg.Transfer.FeePremiumPercent, cfg.Transfer.FeeEscalationPercent)
}

//nolint:ireturn
func NewTransferService(
	cfg config.Server,
	hotWallet *hotwallet.Wallet,
	chains *chain.Registry,
	balances BalanceService,
	strategy *fee.Strategy,
	clock time2.Clock,
) (TransferService, error) {
	level, err := gateway.ParseNonceLevel(cfg.Transfer.NonceLevel)
	if err != nil {
		return nil, err
	}

	if level == gateway.NonceLatest {
		log.Warn().Msg("Transfers use the latest nonce, concurrent transfers replace each other until mined")
	}

	return transfer.NewService(transfer.Config{
		GasLimit:   cfg.Transfer.GasLimit,
		NonceLevel: level,
	}, hotWallet, chains, balances, strategy, clock), nil
}

func NewRetryController(cfg config.Server, transfers TransferService, metricsService *metrics.Service) (*retry.Controller, error) {
	return retry.NewController(retry.Config{
		MaxAttempts: cfg.Transfer.MaxAttempts,
		Delay:       cfg.Transfer.RetryDelay,
	}, transfers, retry.WithObserver(metricsService))
}

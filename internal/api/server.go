package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/metrics"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/portal-hq/portalex/internal/wallet/balance"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/portal-hq/portalex/internal/wallet/hotwallet"
	"github.com/portal-hq/portalex/internal/wallet/retry"
	"github.com/portal-hq/portalex/internal/wallet/transfer"
	"github.com/rs/zerolog/log"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

// UserService resolves the wallet address of an exchange user.
type UserService interface {
	AddressForExchangeUser(ctx context.Context, exchangeUserID int64) (string, error)
}

// BalanceService 热钱包余额缓存
// Alias to balance.Service for API access
type BalanceService = balance.Service

// TransferService 单次转账执行
type TransferService = transfer.Service

type Router struct {
	Routes         []*echo.Route
	Root           *echo.Group
	Management     *echo.Group
	APIV1Transfers *echo.Group
	Mobile         *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// Components labeled as `optional:"true"` may stay nil, the server is ready without them.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config    config.Server
	DB        *sql.DB `optional:"true"`
	Clock     time2.Clock
	Metrics   *metrics.Service
	Users     UserService
	HotWallet *hotwallet.Wallet
	Chains    *chain.Registry
	Balance   BalanceService
	Transfer  TransferService
	Retry     *retry.Controller
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	db *sql.DB,
	clock time2.Clock,
	metricsService *metrics.Service,
	users UserService,
	hotWallet *hotwallet.Wallet,
	chains *chain.Registry,
	balances BalanceService,
	transfers TransferService,
	retryController *retry.Controller,
) *Server {
	return &Server{
		Config:    cfg,
		DB:        db,
		Clock:     clock,
		Metrics:   metricsService,
		Users:     users,
		HotWallet: hotWallet,
		Chains:    chains,
		Balance:   balances,
		Transfer:  transfers,
		Retry:     retryController,
	}
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.HotWallet != nil {
		log.Debug().Msg("Stopping hot wallet submission lanes")
		s.HotWallet.Close()
	}

	if s.Chains != nil {
		log.Debug().Msg("Closing RPC clients")
		s.Chains.Close()
	}

	if s.DB != nil {
		log.Debug().Msg("Closing database connection")

		if err := s.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, err)
		}
	}

	return errs
}

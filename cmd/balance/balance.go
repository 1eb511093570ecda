package balance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/types"
	"github.com/portal-hq/portalex/internal/util/command"
	"github.com/portal-hq/portalex/internal/wallet/balance"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type Flags struct {
	ChainID int64
	Refresh bool
}

func New() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Prints the hot wallet balance",
		Long: `Prints the hot wallet balance of a chain

Reads the balance cache (BALANCE_CACHE_STORE) and falls back to
the chain on a miss. --refresh always queries the chain.`,
		Run: func(_ *cobra.Command, _ []string) {
			if err := command.WithServer(context.Background(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				return run(ctx, s, flags)
			}); err != nil {
				log.Fatal().Err(err).Msg("Failed to get balance")
			}
		},
	}

	cmd.Flags().Int64Var(&flags.ChainID, "chain", 0, "Chain id, defaults to the ETH_NETWORK chain.")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "Query the chain and update the cache.")

	return cmd
}

func run(ctx context.Context, s *api.Server, flags Flags) error {
	chainID := flags.ChainID
	if chainID == 0 {
		id, ok := chain.LookupChainID(s.Config.Chain.DefaultNetwork)
		if !ok {
			return chain.ErrUnsupportedChain
		}
		chainID = id
	}

	var (
		b   *balance.Balance
		err error
	)
	if flags.Refresh {
		b, err = s.Balance.Refresh(ctx, chainID)
	} else {
		b, err = s.Balance.Get(ctx, chainID)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(types.NewBalanceResponse(b), "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

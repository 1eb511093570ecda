package transfer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/types"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/portal-hq/portalex/internal/util/command"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/portal-hq/portalex/internal/wallet/transfer"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type Flags struct {
	To      string
	Amount  string
	ChainID int64
}

func New() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfers native currency from the hot wallet",
		Long: `Transfers native currency from the hot wallet to an address

Runs a single transfer through the same retry controller the
server uses and prints the submission result as JSON.
The transaction is submitted, not awaited.`,
		Run: func(_ *cobra.Command, _ []string) {
			if err := command.WithServer(context.Background(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				return run(ctx, s, flags)
			}); err != nil {
				log.Fatal().Err(err).Msg("Transfer failed")
			}
		},
	}

	cmd.Flags().StringVar(&flags.To, "to", "", "Destination address (EIP-55 checksum or all lower case).")
	cmd.Flags().StringVar(&flags.Amount, "amount", "", "Amount in native units, defaults to INIT_AMOUNT.")
	cmd.Flags().Int64Var(&flags.ChainID, "chain", 0, "Chain id, defaults to the ETH_NETWORK chain.")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func run(ctx context.Context, s *api.Server, flags Flags) error {
	amount := s.Config.Transfer.InitAmount
	if len(flags.Amount) > 0 {
		parsed, err := decimal.NewFromString(flags.Amount)
		if err != nil {
			return transfer.ErrInvalidAmount
		}
		amount = parsed
	}

	chainID := flags.ChainID
	if chainID == 0 {
		id, ok := chain.LookupChainID(s.Config.Chain.DefaultNetwork)
		if !ok {
			return chain.ErrUnsupportedChain
		}
		chainID = id
	}

	req := transfer.NewRequest(flags.To, amount, chainID)
	util.LogFromContext(ctx).Info().
		Str("request_id", req.ID.String()).
		Str("to", req.To).
		Str("amount", amount.String()).
		Int64("chain_id", chainID).
		Msg("Submitting transfer")

	result, err := s.Retry.Transfer(ctx, req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(&types.TransferResponse{
		RequestID: strfmt.UUID(req.ID.String()),
		TxHash:    result.Hash.Hex(),
		ChainID:   chainID,
		To:        req.To,
		Amount:    amount.String(),
		Attempts:  types.NewTransferAttempts(result),
	}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

package probe

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/api"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/portal-hq/portalex/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const readinessTimeout = 10 * time.Second

type ReadinessFlags struct {
	Verbose bool
}

func newReadiness() *cobra.Command {
	var flags ReadinessFlags

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long: `Runs connection readiness probes

This command triggers the same probes as /-/healthy
and prints the results to stdout. Fails with
non zero exitcode on encountered errors.

A typical usecase of this command are readiness probes
to take action if dependant services (the database
or the chain RPC nodes) become unstable.`,
		Run: func(_ *cobra.Command, _ []string) {
			readinessCmdFunc(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Verbose, verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func readinessCmdFunc(flags ReadinessFlags) {
	err := command.WithServer(context.Background(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
		if errs := RunReadiness(ctx, s, flags); len(errs) > 0 {
			log.Fatal().Errs("errs", errs).Msg("Unhealthy.")
		}

		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to run readiness probes")
	}
}

// RunReadiness pings the database (when the postgres balance store is used) and every chain gateway.
func RunReadiness(ctx context.Context, s *api.Server, flags ReadinessFlags) []error {
	log := util.LogFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	var errs []error

	if s.Config.BalanceCache.Store == config.BalanceStorePostgres && s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			errs = append(errs, errors.Wrap(err, "database ping failed"))
		} else if flags.Verbose {
			log.Info().Msg("Database ok")
		}
	}

	for _, chainID := range s.Chains.ChainIDs() {
		gw, err := s.Chains.Gateway(chainID)
		if err == nil {
			_, err = gw.FeeData(ctx)
		}
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "chain %d", chainID))
			continue
		}
		if flags.Verbose {
			log.Info().Int64("chain_id", chainID).Msg("Chain gateway ok")
		}
	}

	return errs
}

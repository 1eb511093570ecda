package probe

import (
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/util/command"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/portal-hq/portalex/internal/wallet/hotwallet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type LivenessFlags struct {
	Verbose bool
}

func newLiveness() *cobra.Command {
	var flags LivenessFlags

	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long: `Runs local liveness probes

Validates the configuration without touching the network:
the hot wallet key material must load and every configured
network must resolve. Fails with non zero exitcode on errors.`,
		Run: func(_ *cobra.Command, _ []string) {
			livenessCmdFunc(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Verbose, verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func livenessCmdFunc(flags LivenessFlags) {
	cfg := config.DefaultServiceConfigFromEnv()
	command.SetupLogger(cfg)

	if errs := RunLiveness(cfg, flags); len(errs) > 0 {
		log.Fatal().Errs("errs", errs).Msg("Unhealthy.")
	}
}

func RunLiveness(cfg config.Server, flags LivenessFlags) []error {
	var errs []error

	// 生成新钱包没有意义，只检查已配置的密钥材料
	if len(cfg.HotWallet.PrivateKey) > 0 || len(cfg.HotWallet.Mnemonic) > 0 || len(cfg.HotWallet.Address) > 0 {
		w, err := hotwallet.Load(cfg.HotWallet)
		if err != nil {
			errs = append(errs, err)
		} else {
			if flags.Verbose {
				log.Info().Str("address", w.Address().Hex()).Bool("can_sign", w.CanSign()).Msg("Hot wallet ok")
			}
			w.Close()
		}
	}

	networks, err := chain.NetworksFromConfig(cfg)
	if err != nil {
		errs = append(errs, err)
	} else if flags.Verbose {
		for _, n := range networks {
			log.Info().Int64("chain_id", n.ChainID).Str("network", n.Name).Msg("Network ok")
		}
	}

	return errs
}

package metrics_test

import (
	"testing"
	"time"

	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/metrics"
	"github.com/portal-hq/portalex/internal/test"
	"github.com/portal-hq/portalex/internal/wallet/fee"
	"github.com/portal-hq/portalex/internal/wallet/retry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservers(t *testing.T) {
	m, err := metrics.New(config.DefaultServiceConfigFromEnv(), nil)
	require.NoError(t, err)

	m.ObserveBalance(11155111, decimal.RequireFromString("1.5"))
	m.ObserveAttempt(11155111, retry.TransactionAttempt{
		Number:  1,
		Outcome: retry.RetryScheduled,
		Fee:     &fee.Params{MaxFeePerGas: test.Gwei(25)},
	})
	m.ObserveAttempt(11155111, retry.TransactionAttempt{Number: 2, Outcome: retry.Succeeded})
	m.ObserveResult(11155111, &retry.Result{State: retry.Succeeded}, 2*time.Second)

	count, err := testutil.GatherAndCount(m.Registry(),
		"portalex_transfers_total",
		"portalex_transfer_attempts_total",
		"portalex_hot_wallet_balance",
		"portalex_transfer_fee_per_gas_wei",
	)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNewIsolatedRegistries(t *testing.T) {
	_, err := metrics.New(config.DefaultServiceConfigFromEnv(), nil)
	require.NoError(t, err)

	_, err = metrics.New(config.DefaultServiceConfigFromEnv(), nil)
	require.NoError(t, err)
}

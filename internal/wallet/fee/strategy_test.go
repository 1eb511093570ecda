package fee_test

import (
	"math/big"
	"testing"

	"github.com/portal-hq/portalex/internal/test"
	"github.com/portal-hq/portalex/internal/wallet/fee"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStrategy(t *testing.T) *fee.Strategy {
	t.Helper()

	s, err := fee.NewStrategy(200, 20)
	require.NoError(t, err)
	return s
}

func TestComputeFloorWins(t *testing.T) {
	s := newStrategy(t)

	params, err := s.Compute(fee.Input{
		Data:  &gateway.FeeData{BaseFee: test.Gwei(10), PriorityFee: big.NewInt(0), GasPrice: test.Gwei(10)},
		Floor: test.Gwei(25),
	})
	require.NoError(t, err)

	require.True(t, params.DynamicFee())
	assert.Equal(t, test.Gwei(25), params.MaxFeePerGas)
	assert.Equal(t, big.NewInt(0), params.MaxPriorityFeePerGas)
	assert.Equal(t, test.Gwei(25), params.PerGas())
}

func TestComputePremiumAboveFloor(t *testing.T) {
	s := newStrategy(t)

	params, err := s.Compute(fee.Input{
		Data:  &gateway.FeeData{BaseFee: test.Gwei(20), PriorityFee: test.Gwei(2)},
		Floor: test.Gwei(25),
	})
	require.NoError(t, err)

	assert.Equal(t, test.Gwei(44), params.MaxFeePerGas)
	assert.Equal(t, test.Gwei(4), params.MaxPriorityFeePerGas)
}

func TestComputeLegacy(t *testing.T) {
	s := newStrategy(t)

	params, err := s.Compute(fee.Input{
		Data:  &gateway.FeeData{GasPrice: test.Gwei(10)},
		Floor: test.Gwei(25),
	})
	require.NoError(t, err)
	assert.False(t, params.DynamicFee())
	assert.Equal(t, test.Gwei(25), params.GasPrice)

	params, err = s.Compute(fee.Input{
		Data:  &gateway.FeeData{GasPrice: test.Gwei(30)},
		Floor: test.Gwei(25),
	})
	require.NoError(t, err)
	assert.Equal(t, test.Gwei(60), params.GasPrice)
}

func TestComputeEscalatesWithPending(t *testing.T) {
	s := newStrategy(t)
	data := &gateway.FeeData{BaseFee: test.Gwei(10), PriorityFee: big.NewInt(0)}

	assert.Equal(t, int64(240), s.EffectivePremium(2))

	params, err := s.Compute(fee.Input{Data: data, Pending: 2})
	require.NoError(t, err)
	assert.Equal(t, test.Gwei(24), params.MaxFeePerGas)
}

func TestComputeOutbidsPreviousAttempt(t *testing.T) {
	s := newStrategy(t)
	data := &gateway.FeeData{BaseFee: test.Gwei(10), PriorityFee: test.Gwei(1)}

	previous := &fee.Params{MaxFeePerGas: test.Gwei(60), MaxPriorityFeePerGas: test.Gwei(5)}

	params, err := s.Compute(fee.Input{Data: data, Pending: 1, Previous: previous})
	require.NoError(t, err)

	assert.Equal(t, test.Gwei(72), params.MaxFeePerGas)
	assert.Equal(t, test.Gwei(6), params.MaxPriorityFeePerGas)
	assert.Equal(t, 1, params.MaxFeePerGas.Cmp(previous.MaxFeePerGas))
}

func TestComputeOutbidsLegacyPreviousAttempt(t *testing.T) {
	s := newStrategy(t)

	previous := &fee.Params{GasPrice: big.NewInt(3)}
	params, err := s.Compute(fee.Input{Data: &gateway.FeeData{GasPrice: big.NewInt(1)}, Pending: 1, Previous: previous})
	require.NoError(t, err)

	// 3 * 120% rounds down to 3, the price still has to move
	assert.Equal(t, big.NewInt(4), params.GasPrice)
}

func TestComputeStrictlyIncreasesAcrossAttempts(t *testing.T) {
	s := newStrategy(t)
	data := &gateway.FeeData{BaseFee: test.Gwei(10), PriorityFee: test.Gwei(1)}

	var previous *fee.Params
	for attempt := 1; attempt <= 5; attempt++ {
		params, err := s.Compute(fee.Input{Data: data, Floor: test.Gwei(25), Pending: 1, Previous: previous})
		require.NoError(t, err)

		if previous != nil {
			assert.Equal(t, 1, params.PerGas().Cmp(previous.PerGas()), "attempt %d", attempt)
		}
		previous = params
	}
}

func TestComputeIgnoresPreviousWithoutPending(t *testing.T) {
	s := newStrategy(t)

	params, err := s.Compute(fee.Input{
		Data:     &gateway.FeeData{BaseFee: test.Gwei(10), PriorityFee: big.NewInt(0)},
		Previous: &fee.Params{MaxFeePerGas: test.Gwei(100), MaxPriorityFeePerGas: test.Gwei(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, test.Gwei(20), params.MaxFeePerGas)
}

func TestComputeRequiresFeeData(t *testing.T) {
	s := newStrategy(t)

	_, err := s.Compute(fee.Input{})
	require.Error(t, err)

	_, err = s.Compute(fee.Input{Data: &gateway.FeeData{}})
	require.Error(t, err)
}

func TestNewStrategyValidation(t *testing.T) {
	_, err := fee.NewStrategy(50, 20)
	require.Error(t, err)

	_, err = fee.NewStrategy(5000, 20)
	require.Error(t, err)

	_, err = fee.NewStrategy(200, -1)
	require.Error(t, err)

	_, err = fee.NewStrategy(200, 101)
	require.Error(t, err)

	s, err := fee.NewStrategy(200, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(200), s.EffectivePremium(3))

	_, err = fee.NewStrategy(200, 100)
	require.NoError(t, err)

	_, err = fee.NewStrategy(120, 20)
	require.NoError(t, err)
}

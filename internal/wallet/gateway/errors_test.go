package gateway_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind gateway.Kind
	}{
		{"nonce too low", errors.New("nonce too low: next nonce 5, tx nonce 4"), gateway.KindNonceConflict},
		{"already known", errors.New("already known"), gateway.KindNonceConflict},
		{"nonce already used", errors.New("Nonce already used"), gateway.KindNonceConflict},
		{"replacement underpriced", errors.New("replacement transaction underpriced"), gateway.KindFeeTooLow},
		{"underpriced", errors.New("transaction underpriced: tip needed 1, tip permitted 0"), gateway.KindFeeTooLow},
		{"deadline", errors.Wrap(context.DeadlineExceeded, "failed to send transaction"), gateway.KindNetworkUnavailable},
		{"no client", gateway.ErrNoClientAvailable, gateway.KindNetworkUnavailable},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"), gateway.KindNetworkUnavailable},
		{"insufficient funds", errors.New("insufficient funds for gas * price + value"), gateway.KindRejected},
		{"intrinsic gas", errors.New("intrinsic gas too low"), gateway.KindRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gateway.Classify(11155111, "submit", tt.err)
			require.Error(t, err)

			kind, ok := gateway.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.kind.Transient(), gateway.IsTransient(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	first := gateway.Classify(1, "submit", errors.New("nonce too low"))
	wrapped := errors.Wrap(first, "attempt 2")

	again := gateway.Classify(1, "retry", wrapped)
	kind, ok := gateway.KindOf(again)
	require.True(t, ok)
	assert.Equal(t, gateway.KindNonceConflict, kind)
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, gateway.Classify(1, "submit", nil))
	assert.False(t, gateway.IsTransient(nil))
	assert.False(t, gateway.IsTransient(errors.New("nonce too low")))
}

func TestParseNonceLevel(t *testing.T) {
	level, err := gateway.ParseNonceLevel("Pending")
	require.NoError(t, err)
	assert.Equal(t, gateway.NoncePending, level)

	level, err = gateway.ParseNonceLevel("latest")
	require.NoError(t, err)
	assert.Equal(t, gateway.NonceLatest, level)

	_, err = gateway.ParseNonceLevel("safe")
	require.Error(t, err)
}

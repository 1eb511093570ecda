package balance_test

import (
	"testing"
	"time"

	"github.com/portal-hq/portalex/internal/test"
	"github.com/portal-hq/portalex/internal/wallet/balance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := balance.NewMemoryStore()

	_, err := store.Get(t.Context(), sepolia, hotWallet)
	require.ErrorIs(t, err, balance.ErrNotCached)

	wei := test.Ether(1)
	require.NoError(t, store.Put(t.Context(), &balance.Balance{
		ChainID:         sepolia,
		Address:         hotWallet,
		Wei:             wei,
		Amount:          decimal.NewFromInt(1),
		LastRefreshedAt: time.Now(),
	}))

	wei.SetInt64(0)

	got, err := store.Get(t.Context(), sepolia, hotWallet)
	require.NoError(t, err)
	assert.Equal(t, test.Ether(1), got.Wei)

	got.Wei.SetInt64(7)
	again, err := store.Get(t.Context(), sepolia, hotWallet)
	require.NoError(t, err)
	assert.Equal(t, test.Ether(1), again.Wei)
}

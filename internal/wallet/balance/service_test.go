package balance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/test"
	"github.com/portal-hq/portalex/internal/wallet/balance"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sepolia = 11155111

var hotWallet = common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")

type recordingObserver struct {
	mu       sync.Mutex
	observed []decimal.Decimal
}

func (o *recordingObserver) ObserveBalance(_ int64, amount decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed = append(o.observed, amount)
}

func newService(t *testing.T, gw *test.FakeGateway, observer balance.Observer) (balance.Service, *time2.MockClock) {
	t.Helper()

	registry := chain.NewRegistry()
	registry.Register(chain.Network{ChainID: gw.ID, Name: "sepolia"}, gw)

	clock := time2.NewMockClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return balance.NewService(balance.NewMemoryStore(), registry, hotWallet, clock, observer), clock
}

func TestGetColdFetchesOnceThenCaches(t *testing.T) {
	gw := test.NewFakeGateway(sepolia)
	gw.SetBalance(hotWallet, test.Ether(1))
	observer := &recordingObserver{}
	svc, _ := newService(t, gw, observer)

	b, err := svc.Get(t.Context(), sepolia)
	require.NoError(t, err)
	assert.Equal(t, "1", b.Amount.String())
	assert.Equal(t, int32(1), gw.BalanceCalls.Load())

	gw.SetBalance(hotWallet, test.Ether(5))

	b, err = svc.Get(t.Context(), sepolia)
	require.NoError(t, err)
	assert.Equal(t, "1", b.Amount.String())
	assert.Equal(t, int32(1), gw.BalanceCalls.Load())
	assert.Len(t, observer.observed, 1)
}

func TestRefreshOverwritesCache(t *testing.T) {
	gw := test.NewFakeGateway(sepolia)
	gw.SetBalance(hotWallet, test.Ether(1))
	svc, clock := newService(t, gw, nil)

	first, err := svc.Get(t.Context(), sepolia)
	require.NoError(t, err)

	gw.SetBalance(hotWallet, test.Ether(3))
	clock.Advance(time.Minute)

	refreshed, err := svc.Refresh(t.Context(), sepolia)
	require.NoError(t, err)
	assert.Equal(t, "3", refreshed.Amount.String())
	assert.True(t, refreshed.LastRefreshedAt.After(first.LastRefreshedAt))

	cached, err := svc.Get(t.Context(), sepolia)
	require.NoError(t, err)
	assert.Equal(t, "3", cached.Amount.String())
	assert.Equal(t, int32(2), gw.BalanceCalls.Load())
}

func TestRefreshAlwaysCallsGateway(t *testing.T) {
	gw := test.NewFakeGateway(sepolia)
	svc, _ := newService(t, gw, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Refresh(t.Context(), sepolia)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), gw.BalanceCalls.Load())
}

func TestGetConcurrentColdReadsShareOneFetch(t *testing.T) {
	gw := test.NewFakeGateway(sepolia)
	gw.SetBalance(hotWallet, test.Ether(2))

	release := make(chan struct{})
	gw.OnBalance = func(context.Context) { <-release }

	svc, _ := newService(t, gw, nil)

	const readers = 10
	var wg sync.WaitGroup
	results := make([]*balance.Balance, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Get(context.Background(), sepolia)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "2", results[i].Amount.String())
	}
	assert.Equal(t, int32(1), gw.BalanceCalls.Load())
}

func TestGetColdReadSurvivesFirstCallerCancel(t *testing.T) {
	gw := test.NewFakeGateway(sepolia)
	gw.SetBalance(hotWallet, test.Ether(2))

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	gw.OnBalance = func(ctx context.Context) {
		once.Do(func() { close(started) })
		select {
		case <-release:
		case <-ctx.Done():
		}
	}

	svc, _ := newService(t, gw, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Get(firstCtx, sepolia)
		firstErr <- err
	}()
	<-started

	type result struct {
		b   *balance.Balance
		err error
	}
	second := make(chan result, 1)
	go func() {
		b, err := svc.Get(context.Background(), sepolia)
		second <- result{b, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "2", res.b.Amount.String())

	cached, err := svc.Get(t.Context(), sepolia)
	require.NoError(t, err)
	assert.Equal(t, "2", cached.Amount.String())
	assert.Equal(t, int32(1), gw.BalanceCalls.Load())
}

func TestGetUnsupportedChain(t *testing.T) {
	gw := test.NewFakeGateway(sepolia)
	svc, _ := newService(t, gw, nil)

	_, err := svc.Get(t.Context(), 1)
	require.ErrorIs(t, err, chain.ErrUnsupportedChain)
	assert.Equal(t, int32(0), gw.BalanceCalls.Load())
}

func TestGetGatewayErrorIsNotCached(t *testing.T) {
	gw := test.NewFakeGateway(sepolia)
	gw.SetBalanceError(errors.New("connection refused"))
	svc, _ := newService(t, gw, nil)

	_, err := svc.Get(t.Context(), sepolia)
	require.Error(t, err)

	gw.SetBalanceError(nil)
	gw.SetBalance(hotWallet, test.Ether(1))

	b, err := svc.Get(t.Context(), sepolia)
	require.NoError(t, err)
	assert.Equal(t, "1", b.Amount.String())
}

package hotwallet_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/wallet/hotwallet"
	"github.com/portal-hq/portalex/internal/wallet/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// hardhat default account #0
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testMnemonic   = "test test test test test test test test test test test junk"
)

func TestFromPrivateKey(t *testing.T) {
	w, err := hotwallet.FromPrivateKey(testPrivateKey)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, common.HexToAddress(testAddress), w.Address())
	assert.True(t, w.CanSign())

	_, err = hotwallet.FromPrivateKey("not-a-key")
	require.Error(t, err)
}

func TestFromMnemonic(t *testing.T) {
	w, err := hotwallet.FromMnemonic(testMnemonic, "", config.DefaultDerivationPath)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, common.HexToAddress(testAddress), w.Address())
}

func TestLoad(t *testing.T) {
	w, err := hotwallet.Load(config.HotWallet{PrivateKey: testPrivateKey, Address: testAddress})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddress), w.Address())
	w.Close()

	_, err = hotwallet.Load(config.HotWallet{
		PrivateKey: testPrivateKey,
		Address:    "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	})
	require.ErrorIs(t, err, hotwallet.ErrAddressMismatch)

	generated, err := hotwallet.Load(config.HotWallet{})
	require.NoError(t, err)
	assert.True(t, generated.CanSign())
	assert.NotEqual(t, common.Address{}, generated.Address())
	generated.Close()

	watch, err := hotwallet.Load(config.HotWallet{Address: testAddress})
	require.NoError(t, err)
	assert.False(t, watch.CanSign())
	_, err = watch.SignTransfer(nil)
	require.ErrorIs(t, err, hotwallet.ErrNoSigningKey)
	watch.Close()
}

func TestLoadKeystoreFile(t *testing.T) {
	cfg := config.HotWallet{
		KeystoreFile:     filepath.Join(t.TempDir(), "hot.json"),
		KeystorePassword: "secret",
	}

	created, err := hotwallet.LoadWithScrypt(cfg, keystore.LightScryptParams())
	require.NoError(t, err)
	require.True(t, created.CanSign())
	created.Close()

	reloaded, err := hotwallet.LoadWithScrypt(cfg, keystore.LightScryptParams())
	require.NoError(t, err)
	assert.Equal(t, created.Address(), reloaded.Address())
	reloaded.Close()

	cfg.KeystorePassword = "wrong"
	_, err = hotwallet.LoadWithScrypt(cfg, keystore.LightScryptParams())
	require.ErrorIs(t, err, keystore.ErrInvalidPassword)
}

func TestWithLaneSerializesPerChain(t *testing.T) {
	w, err := hotwallet.Generate()
	require.NoError(t, err)
	defer w.Close()

	var (
		running atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.WithLane(context.Background(), 1, func(context.Context) error {
				n := running.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestWithLaneChainsIndependent(t *testing.T) {
	w, err := hotwallet.Generate()
	require.NoError(t, err)
	defer w.Close()

	release := make(chan struct{})
	blocked := make(chan struct{})

	go func() {
		_ = w.WithLane(context.Background(), 1, func(context.Context) error {
			close(blocked)
			<-release
			return nil
		})
	}()
	<-blocked

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.WithLane(ctx, 137, func(context.Context) error { return nil }))

	close(release)
}

func TestWithLaneContextCancelled(t *testing.T) {
	w, err := hotwallet.Generate()
	require.NoError(t, err)
	defer w.Close()

	release := make(chan struct{})
	blocked := make(chan struct{})
	go func() {
		_ = w.WithLane(context.Background(), 1, func(context.Context) error {
			close(blocked)
			<-release
			return nil
		})
	}()
	<-blocked

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.WithLane(ctx, 1, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestWithLaneAfterClose(t *testing.T) {
	w, err := hotwallet.Generate()
	require.NoError(t, err)

	require.NoError(t, w.WithLane(context.Background(), 1, func(context.Context) error { return nil }))
	w.Close()

	err = w.WithLane(context.Background(), 1, func(context.Context) error { return nil })
	require.ErrorIs(t, err, hotwallet.ErrWalletClosed)
}

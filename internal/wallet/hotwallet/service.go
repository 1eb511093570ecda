package hotwallet

import (
	"context"
	"crypto/ecdsa"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/wallet/address"
	"github.com/portal-hq/portalex/internal/wallet/keystore"
	"github.com/portal-hq/portalex/internal/wallet/seed"
	"github.com/portal-hq/portalex/internal/wallet/signer"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoSigningKey    = errors.New("hot wallet has no signing key")
	ErrAddressMismatch = errors.New("configured address does not match signing key")
	ErrWalletClosed    = errors.New("hot wallet is closed")
)

// Wallet 热钱包：一个地址及其独占的私钥
// 同一条链上的 nonce 读取、签名与提交通过 WithLane 串行执行
type Wallet struct {
	address common.Address
	key     *ecdsa.PrivateKey

	mu    sync.Mutex
	lanes map[int64]chan job
	quit  chan struct{}
	wg    sync.WaitGroup
}

type job struct {
	ctx  context.Context //nolint:containedctx // 每个任务携带调用方的 ctx
	fn   func(ctx context.Context) error
	done chan error
}

func newWallet(key *ecdsa.PrivateKey) *Wallet {
	w := &Wallet{
		key:   key,
		lanes: make(map[int64]chan job),
		quit:  make(chan struct{}),
	}
	if key != nil {
		w.address = crypto.PubkeyToAddress(key.PublicKey)
	}

	return w
}

// FromPrivateKey loads a wallet from a hex encoded private key, with or without 0x prefix.
func FromPrivateKey(hexKey string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}

	return newWallet(key), nil
}

// FromMnemonic derives the wallet key at path from a BIP39 mnemonic.
func FromMnemonic(mnemonic string, passphrase string, path string) (*Wallet, error) {
	seedBytes, err := seed.FromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer seed.Clear(seedBytes)

	keyBytes, err := address.DerivePrivateKey(seedBytes, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive private key")
	}
	defer seed.Clear(keyBytes)

	key, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert private key to ECDSA")
	}

	return newWallet(key), nil
}

// Generate creates a wallet with a fresh random key.
func Generate() (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate private key")
	}

	return newWallet(key), nil
}

// WatchOnly returns a wallet that knows its address but cannot sign.
func WatchOnly(addr common.Address) *Wallet {
	w := newWallet(nil)
	w.address = addr
	return w
}

// Load 按配置加载热钱包：私钥优先，其次助记词，再次 keystore 文件；都未配置时生成新钱包
func Load(cfg config.HotWallet) (*Wallet, error) {
	return load(cfg, keystore.DefaultScryptParams())
}

func load(cfg config.HotWallet, params keystore.ScryptParams) (*Wallet, error) {
	var (
		w   *Wallet
		err error
	)

	switch {
	case len(cfg.PrivateKey) > 0:
		w, err = FromPrivateKey(cfg.PrivateKey)
	case len(cfg.Mnemonic) > 0:
		path := cfg.DerivationPath
		if len(path) == 0 {
			path = config.DefaultDerivationPath
		}
		w, err = FromMnemonic(cfg.Mnemonic, cfg.Passphrase, path)
	case len(cfg.KeystoreFile) > 0:
		w, err = fromKeystoreFile(cfg.KeystoreFile, cfg.KeystorePassword, params)
	case len(cfg.Address) > 0:
		addr, perr := address.Parse(cfg.Address)
		if perr != nil {
			return nil, errors.Wrap(perr, "invalid hot wallet address")
		}
		log.Warn().Str("address", addr.Hex()).Msg("No hot wallet key configured, transfers are disabled")
		return WatchOnly(addr), nil
	default:
		w, err = Generate()
		if err == nil {
			log.Warn().
				Str("address", w.Address().Hex()).
				Msg("No hot wallet configured, generated a new one. Add test eth to this wallet")
		}
	}
	if err != nil {
		return nil, err
	}

	if len(cfg.Address) > 0 {
		configured, err := address.Parse(cfg.Address)
		if err != nil {
			return nil, errors.Wrap(err, "invalid hot wallet address")
		}
		if configured != w.Address() {
			return nil, errors.Wrapf(ErrAddressMismatch, "configured %s, key %s", configured.Hex(), w.Address().Hex())
		}
	}

	log.Info().Str("address", w.Address().Hex()).Msg("Hot wallet loaded")

	return w, nil
}

// fromKeystoreFile 解密已有的 keystore；文件不存在时生成新钱包并写入
func fromKeystoreFile(path string, password string, params keystore.ScryptParams) (*Wallet, error) {
	ks, err := keystore.ReadFile(path)
	if err == nil {
		keyBytes, err := keystore.Decrypt(ks, password)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decrypt keystore %s", path)
		}
		defer seed.Clear(keyBytes)

		key, err := crypto.ToECDSA(keyBytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert private key to ECDSA")
		}

		return newWallet(key), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	w, err := Generate()
	if err != nil {
		return nil, err
	}

	keyBytes := crypto.FromECDSA(w.key)
	defer seed.Clear(keyBytes)

	ks, err = keystore.Encrypt(keyBytes, password, params)
	if err != nil {
		return nil, err
	}
	if err := keystore.WriteFile(path, ks); err != nil {
		return nil, err
	}

	log.Warn().
		Str("address", w.Address().Hex()).
		Str("keystore", path).
		Msg("Generated a new hot wallet and saved it to the keystore. Add test eth to this wallet")

	return w, nil
}

func (w *Wallet) Address() common.Address {
	return w.address
}

func (w *Wallet) CanSign() bool {
	return w.key != nil
}

// SignTransfer 签名无状态，可并发调用
func (w *Wallet) SignTransfer(req *signer.TransferRequest) (*types.Transaction, error) {
	if !w.CanSign() {
		return nil, ErrNoSigningKey
	}

	return signer.SignTransfer(w.key, req)
}

// WithLane runs fn on the single writer goroutine of chainID and waits for it.
// Calls for the same chain never overlap; different chains run independently.
func (w *Wallet) WithLane(ctx context.Context, chainID int64, fn func(ctx context.Context) error) error {
	lane, err := w.lane(chainID)
	if err != nil {
		return err
	}

	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case lane <- j:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for submission lane")
	case <-w.quit:
		return ErrWalletClosed
	}

	// 任务一旦被接收就必须等待其结束，fn 自身负责响应 ctx
	return <-j.done
}

func (w *Wallet) lane(chainID int64) (chan job, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.quit:
		return nil, ErrWalletClosed
	default:
	}

	if lane, ok := w.lanes[chainID]; ok {
		return lane, nil
	}

	lane := make(chan job)
	w.lanes[chainID] = lane
	w.wg.Add(1)
	go w.run(chainID, lane)

	return lane, nil
}

func (w *Wallet) run(chainID int64, lane chan job) {
	defer w.wg.Done()

	log.Debug().Int64("chain_id", chainID).Msg("Submission lane started")

	for {
		select {
		case j := <-lane:
			if err := j.ctx.Err(); err != nil {
				j.done <- errors.Wrap(err, "waiting for submission lane")
				continue
			}
			j.done <- j.fn(j.ctx)
		case <-w.quit:
			return
		}
	}
}

// Close stops all lanes after the job currently running on each finishes.
func (w *Wallet) Close() {
	w.mu.Lock()
	select {
	case <-w.quit:
	default:
		close(w.quit)
	}
	w.mu.Unlock()

	w.wg.Wait()
}

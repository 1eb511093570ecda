package transfer

import (
	"context"
	"math/big"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/portal-hq/portalex/internal/wallet"
	"github.com/portal-hq/portalex/internal/wallet/address"
	"github.com/portal-hq/portalex/internal/wallet/balance"
	"github.com/portal-hq/portalex/internal/wallet/chain"
	"github.com/portal-hq/portalex/internal/wallet/fee"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/portal-hq/portalex/internal/wallet/signer"
)

const DefaultGasLimit = 21000

// Service 构建、签名并提交单笔转账，不做重试
type Service interface {
	// Execute 提交一次转账尝试并返回交易哈希，不等待确认
	Execute(ctx context.Context, req *Request, attempt *Attempt) (common.Hash, error)
}

// Wallet is the signing capability used by the executor.
type Wallet interface {
	Address() common.Address
	CanSign() bool
	SignTransfer(req *signer.TransferRequest) (*types.Transaction, error)
	WithLane(ctx context.Context, chainID int64, fn func(ctx context.Context) error) error
}

// ChainResolver resolves a configured chain by id.
type ChainResolver interface {
	Lookup(chainID int64) (*chain.Chain, error)
}

type Config struct {
	GasLimit   uint64
	NonceLevel gateway.NonceLevel
}

type service struct {
	config   Config
	wallet   Wallet
	chains   ChainResolver
	balances balance.Service
	strategy *fee.Strategy
	clock    time2.Clock
}

// NewService 创建转账执行服务
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(
	config Config,
	hotWallet Wallet,
	chains ChainResolver,
	balances balance.Service,
	strategy *fee.Strategy,
	clock time2.Clock,
) Service {
	if config.GasLimit == 0 {
		config.GasLimit = DefaultGasLimit
	}
	if len(config.NonceLevel) == 0 {
		config.NonceLevel = gateway.NoncePending
	}

	return &service{
		config:   config,
		wallet:   hotWallet,
		chains:   chains,
		balances: balances,
		strategy: strategy,
		clock:    clock,
	}
}

func (s *service) Execute(ctx context.Context, req *Request, attempt *Attempt) (common.Hash, error) {
	if attempt == nil {
		attempt = &Attempt{Number: 1}
	}
	attempt.RequestID = req.ID

	// 1. 校验参数，通过之前不发起任何网络请求；输入错误优先于签名能力
	to, value, err := s.validate(req)
	if err != nil {
		return common.Hash{}, err
	}

	if !s.wallet.CanSign() {
		return common.Hash{}, ErrSigningKeyMissing
	}

	// 2. 解析链
	c, err := s.chains.Lookup(req.ChainID)
	if err != nil {
		return common.Hash{}, err
	}

	// 3. 检查热钱包余额（建议性检查，与提交不是原子操作）
	cached, err := s.balances.Get(ctx, req.ChainID)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to get hot wallet balance")
	}
	if cached.Amount.LessThan(req.Amount) {
		return common.Hash{}, errors.Wrapf(ErrInsufficientBalance, "balance %s, requested %s",
			cached.Amount.String(), req.Amount.String())
	}

	// 4. 在该链的单写者通道内读取 nonce、计算手续费、签名并提交
	var hash common.Hash
	err = s.wallet.WithLane(ctx, req.ChainID, func(ctx context.Context) error {
		var submitErr error
		hash, submitErr = s.submit(ctx, c, to, value, attempt)
		return submitErr
	})
	if err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

func (s *service) validate(req *Request) (common.Address, *big.Int, error) {
	if err := address.Validate(s.wallet.Address().Hex()); err != nil {
		return common.Address{}, nil, errors.Wrap(err, "source address")
	}

	to, err := address.Parse(req.To)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "destination address")
	}

	switch req.Amount.Sign() {
	case -1:
		return common.Address{}, nil, errors.Wrapf(ErrReverseTransferUnsupported, "amount %s", req.Amount.String())
	case 0:
		return common.Address{}, nil, errors.Wrap(ErrInvalidAmount, "amount must be greater than zero")
	}

	value, err := wallet.EtherToWei(req.Amount)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(ErrInvalidAmount, err.Error())
	}

	return to, value, nil
}

func (s *service) submit(ctx context.Context, c *chain.Chain, to common.Address, value *big.Int, attempt *Attempt) (common.Hash, error) {
	from := s.wallet.Address()
	gw := c.Gateway

	latest, err := gw.Nonce(ctx, from, gateway.NonceLatest)
	if err != nil {
		return common.Hash{}, submissionError(c.ChainID, err)
	}
	pending, err := gw.Nonce(ctx, from, gateway.NoncePending)
	if err != nil {
		return common.Hash{}, submissionError(c.ChainID, err)
	}

	nonce := latest
	if s.config.NonceLevel == gateway.NoncePending {
		nonce = pending
	}

	var outstanding uint64
	if pending > latest {
		outstanding = pending - latest
	}

	feeData, err := gw.FeeData(ctx)
	if err != nil {
		return common.Hash{}, submissionError(c.ChainID, err)
	}

	params, err := s.strategy.Compute(fee.Input{
		Data:     feeData,
		Floor:    c.FeeFloor,
		Pending:  outstanding,
		Previous: attempt.Previous,
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to compute fee")
	}

	tx, err := s.wallet.SignTransfer(&signer.TransferRequest{
		ChainID:  c.ChainID,
		Nonce:    nonce,
		To:       to,
		Value:    value,
		GasLimit: s.config.GasLimit,
		Fee:      params,
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to sign transfer")
	}

	attempt.Fee = params
	attempt.Nonce = nonce
	attempt.Pending = outstanding
	attempt.SubmittedAt = s.clock.Now()

	logger := util.LogFromContext(ctx).With().
		Str("request_id", attempt.RequestID.String()).
		Int("attempt", attempt.Number).
		Int64("chain_id", c.ChainID).
		Uint64("nonce", nonce).
		Uint64("pending", outstanding).
		Str("fee_per_gas", params.PerGas().String()).
		Logger()

	hash, err := gw.Submit(ctx, tx)
	if err != nil {
		logger.Warn().Err(err).Msg("Transfer submission failed")
		return common.Hash{}, submissionError(c.ChainID, err)
	}

	logger.Info().
		Str("tx_hash", hash.Hex()).
		Str("to", to.Hex()).
		Str("value_wei", value.String()).
		Msg("Transfer submitted")

	return hash, nil
}

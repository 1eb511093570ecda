package balance

import (
	"context"
	"strconv"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/wallet"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Service 热钱包余额缓存
// 缓存不会过期，只有显式 Refresh 才会更新；并发 Refresh 以最后写入为准
type Service interface {
	// Get 返回缓存余额；缓存未命中时同步查询链上余额并写入缓存
	Get(ctx context.Context, chainID int64) (*Balance, error)

	// Refresh 无条件查询链上余额并覆盖缓存
	Refresh(ctx context.Context, chainID int64) (*Balance, error)
}

// GatewayResolver resolves the gateway serving a chain.
type GatewayResolver interface {
	Gateway(chainID int64) (gateway.Gateway, error)
}

// Observer receives every freshly fetched balance.
type Observer interface {
	ObserveBalance(chainID int64, amount decimal.Decimal)
}

const coldFetchTimeout = 30 * time.Second

type service struct {
	store    Store
	gateways GatewayResolver
	address  common.Address
	clock    time2.Clock
	observer Observer
	group    singleflight.Group
}

// NewService 创建余额缓存服务
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(store Store, gateways GatewayResolver, address common.Address, clock time2.Clock, observer Observer) Service {
	return &service{
		store:    store,
		gateways: gateways,
		address:  address,
		clock:    clock,
		observer: observer,
	}
}

func (s *service) Get(ctx context.Context, chainID int64) (*Balance, error) {
	cached, err := s.store.Get(ctx, chainID, s.address)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrNotCached) {
		return nil, errors.Wrap(err, "failed to read cached balance")
	}

	// 并发的冷启动读取合并为一次链上查询
	// 共享查询不随任何单个调用方取消，结果会写入缓存供后续读取
	ch := s.group.DoChan(strconv.FormatInt(chainID, 10), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), coldFetchTimeout)
		defer cancel()

		if cached, err := s.store.Get(fetchCtx, chainID, s.address); err == nil {
			return cached, nil
		}
		return s.fetch(fetchCtx, chainID)
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "balance read aborted")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		//nolint:forcetypeassert // singleflight 只返回 *Balance
		return res.Val.(*Balance), nil
	}
}

func (s *service) Refresh(ctx context.Context, chainID int64) (*Balance, error) {
	return s.fetch(ctx, chainID)
}

func (s *service) fetch(ctx context.Context, chainID int64) (*Balance, error) {
	gw, err := s.gateways.Gateway(chainID)
	if err != nil {
		return nil, err
	}

	wei, err := gw.Balance(ctx, s.address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch balance on chain %d", chainID)
	}

	b := &Balance{
		ChainID:         chainID,
		Address:         s.address,
		Wei:             wei,
		Amount:          wallet.WeiToEther(wei),
		LastRefreshedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.store.Put(ctx, b); err != nil {
		return nil, errors.Wrap(err, "failed to cache balance")
	}

	if s.observer != nil {
		s.observer.ObserveBalance(chainID, b.Amount)
	}

	log.Debug().
		Int64("chain_id", chainID).
		Str("address", s.address.Hex()).
		Str("balance", b.Amount.String()).
		Msg("Hot wallet balance refreshed")

	return b, nil
}

package gateway

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RPCClient 封装以太坊 RPC 客户端，支持多个 URL 和故障转移
type RPCClient struct {
	chainID int64
	urls    []string
	clients []*ethclient.Client
	mu      sync.Mutex
	current int // 当前使用的客户端索引
}

var _ Gateway = (*RPCClient)(nil)

// NewRPCClient 创建新的 RPC 客户端
func NewRPCClient(chainID int64, urls []string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.Errorf("at least one RPC URL is required for chain %d", chainID)
	}

	clients := make([]*ethclient.Client, len(urls))
	connected := 0
	for i, url := range urls {
		client, err := ethclient.Dial(url)
		if err != nil {
			log.Warn().
				Int64("chain_id", chainID).
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			continue
		}
		clients[i] = client
		connected++
	}

	if connected == 0 {
		return nil, errors.Errorf("failed to connect to any RPC node for chain %d", chainID)
	}

	return &RPCClient{
		chainID: chainID,
		urls:    urls,
		clients: clients,
	}, nil
}

func (c *RPCClient) ChainID() int64 {
	return c.chainID
}

// Close 关闭所有客户端连接
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, client := range c.clients {
		if client != nil {
			client.Close()
			c.clients[i] = nil
		}
	}
}

// Balance returns the balance of an address at the latest known block, in wei.
func (c *RPCClient) Balance(ctx context.Context, address common.Address) (*big.Int, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, Classify(c.chainID, "balance", err)
	}

	balance, err := client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, Classify(c.chainID, "balance", errors.Wrap(err, "failed to get balance"))
	}

	return balance, nil
}

// FeeData 读取最新区块的 BaseFee；非 EIP-1559 链仅返回 GasPrice
func (c *RPCClient) FeeData(ctx context.Context) (*FeeData, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, Classify(c.chainID, "fee_data", err)
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, Classify(c.chainID, "fee_data", errors.Wrap(err, "failed to get latest header"))
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, Classify(c.chainID, "fee_data", errors.Wrap(err, "failed to suggest gas price"))
	}

	data := &FeeData{GasPrice: gasPrice}
	if header.BaseFee == nil {
		return data, nil
	}

	tipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, Classify(c.chainID, "fee_data", errors.Wrap(err, "failed to suggest gas tip cap"))
	}

	data.BaseFee = header.BaseFee
	data.PriorityFee = tipCap

	return data, nil
}

func (c *RPCClient) Nonce(ctx context.Context, address common.Address, level NonceLevel) (uint64, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return 0, Classify(c.chainID, "nonce", err)
	}

	var nonce uint64
	switch level {
	case NoncePending:
		nonce, err = client.PendingNonceAt(ctx, address)
	case NonceLatest:
		nonce, err = client.NonceAt(ctx, address, nil)
	default:
		return 0, Classify(c.chainID, "nonce", errors.Errorf("unknown nonce level %q", level))
	}
	if err != nil {
		return 0, Classify(c.chainID, "nonce", errors.Wrapf(err, "failed to get %s nonce", level))
	}

	return nonce, nil
}

// Submit 发送已签名的交易，不等待确认
func (c *RPCClient) Submit(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return common.Hash{}, Classify(c.chainID, "submit", err)
	}

	if err := client.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, Classify(c.chainID, "submit", errors.Wrap(err, "failed to send transaction"))
	}

	return tx.Hash(), nil
}

// getClient 获取当前可用的客户端，如果失败则尝试下一个
func (c *RPCClient) getClient(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(c.clients); i++ {
		idx := (c.current + i) % len(c.clients)

		if c.clients[idx] == nil {
			client, err := ethclient.DialContext(ctx, c.urls[idx])
			if err != nil {
				log.Warn().
					Int64("chain_id", c.chainID).
					Str("url", c.urls[idx]).
					Err(err).
					Msg("Failed to reconnect to RPC node")
				continue
			}
			c.clients[idx] = client
		}

		// 只有一个节点时跳过健康检查，由调用本身暴露错误
		if len(c.clients) == 1 {
			return c.clients[idx], nil
		}

		if _, err := c.clients[idx].ChainID(ctx); err != nil {
			log.Warn().
				Int64("chain_id", c.chainID).
				Str("url", c.urls[idx]).
				Err(err).
				Msg("RPC client health check failed, trying next node")
			c.clients[idx].Close()
			c.clients[idx] = nil
			continue
		}

		c.current = idx
		return c.clients[idx], nil
	}

	return nil, ErrNoClientAvailable
}

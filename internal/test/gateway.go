package test

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
)

// Gwei returns n gwei in wei.
func Gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

// Ether returns n ether in wei.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// FakeGateway simulates a single chain's mempool for one or more senders.
// Accepted transactions are mined immediately when AutoMine is set,
// otherwise they stay pending until Mine is called.
type FakeGateway struct {
	ID       int64
	AutoMine bool

	// OnBalance runs before a balance is read, OnNonce before a nonce is read, OnSubmit before a transaction is evaluated.
	// A non-nil error from OnSubmit is returned (classified) instead of the mempool result.
	OnBalance func(ctx context.Context)
	OnNonce   func(ctx context.Context, level gateway.NonceLevel)
	OnSubmit  func(ctx context.Context, tx *types.Transaction, attempt int) error

	BalanceCalls atomic.Int32
	FeeCalls     atomic.Int32
	NonceCalls   atomic.Int32
	SubmitCalls  atomic.Int32

	mu        sync.Mutex
	balances  map[common.Address]*big.Int
	feeData   gateway.FeeData
	confirmed map[common.Address]uint64
	pending   map[common.Address]map[uint64]*types.Transaction
	accepted  []*types.Transaction
	balErr    error
	feeErr    error
}

var _ gateway.Gateway = (*FakeGateway)(nil)

func NewFakeGateway(chainID int64) *FakeGateway {
	return &FakeGateway{
		ID:        chainID,
		AutoMine:  true,
		balances:  make(map[common.Address]*big.Int),
		confirmed: make(map[common.Address]uint64),
		pending:   make(map[common.Address]map[uint64]*types.Transaction),
		feeData: gateway.FeeData{
			BaseFee:     Gwei(10),
			PriorityFee: Gwei(1),
			GasPrice:    Gwei(11),
		},
	}
}

func (g *FakeGateway) ChainID() int64 {
	return g.ID
}

func (g *FakeGateway) SetBalance(address common.Address, wei *big.Int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balances[address] = new(big.Int).Set(wei)
}

func (g *FakeGateway) SetBalanceError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balErr = err
}

func (g *FakeGateway) SetFeeData(data gateway.FeeData) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feeData = data
}

func (g *FakeGateway) SetFeeError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feeErr = err
}

// SetNonce sets the confirmed nonce of address.
func (g *FakeGateway) SetNonce(address common.Address, nonce uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirmed[address] = nonce
}

// Accepted returns all transactions the fake mempool accepted, in order.
func (g *FakeGateway) Accepted() []*types.Transaction {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*types.Transaction(nil), g.accepted...)
}

// Mine confirms all pending transactions of address with contiguous nonces.
func (g *FakeGateway) Mine(address common.Address) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mineLocked(address)
}

func (g *FakeGateway) mineLocked(address common.Address) {
	for {
		next := g.confirmed[address]
		if _, ok := g.pending[address][next]; !ok {
			return
		}
		delete(g.pending[address], next)
		g.confirmed[address] = next + 1
	}
}

func (g *FakeGateway) Balance(ctx context.Context, address common.Address) (*big.Int, error) {
	g.BalanceCalls.Add(1)

	if g.OnBalance != nil {
		g.OnBalance(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, gateway.Classify(g.ID, "balance", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.balErr != nil {
		return nil, gateway.Classify(g.ID, "balance", g.balErr)
	}

	if b, ok := g.balances[address]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (g *FakeGateway) FeeData(_ context.Context) (*gateway.FeeData, error) {
	g.FeeCalls.Add(1)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.feeErr != nil {
		return nil, gateway.Classify(g.ID, "fee_data", g.feeErr)
	}

	data := gateway.FeeData{}
	if g.feeData.BaseFee != nil {
		data.BaseFee = new(big.Int).Set(g.feeData.BaseFee)
	}
	if g.feeData.PriorityFee != nil {
		data.PriorityFee = new(big.Int).Set(g.feeData.PriorityFee)
	}
	if g.feeData.GasPrice != nil {
		data.GasPrice = new(big.Int).Set(g.feeData.GasPrice)
	}

	return &data, nil
}

func (g *FakeGateway) Nonce(ctx context.Context, address common.Address, level gateway.NonceLevel) (uint64, error) {
	g.NonceCalls.Add(1)

	if g.OnNonce != nil {
		g.OnNonce(ctx, level)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	nonce := g.confirmed[address]
	if level == gateway.NoncePending {
		for {
			if _, ok := g.pending[address][nonce]; !ok {
				break
			}
			nonce++
		}
	}

	return nonce, nil
}

func (g *FakeGateway) Submit(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	attempt := int(g.SubmitCalls.Add(1))

	if err := ctx.Err(); err != nil {
		return common.Hash{}, gateway.Classify(g.ID, "submit", err)
	}

	if g.OnSubmit != nil {
		if err := g.OnSubmit(ctx, tx, attempt); err != nil {
			return common.Hash{}, gateway.Classify(g.ID, "submit", err)
		}
	}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return common.Hash{}, gateway.Classify(g.ID, "submit", errors.Wrap(err, "invalid sender"))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if tx.Nonce() < g.confirmed[from] {
		return common.Hash{}, gateway.Classify(g.ID, "submit",
			errors.Errorf("nonce too low: address %s, tx: %d state: %d", from.Hex(), tx.Nonce(), g.confirmed[from]))
	}

	if g.pending[from] == nil {
		g.pending[from] = make(map[uint64]*types.Transaction)
	}

	if existing, ok := g.pending[from][tx.Nonce()]; ok {
		if existing.Hash() == tx.Hash() {
			return common.Hash{}, gateway.Classify(g.ID, "submit", errors.New("already known"))
		}
		// 替换交易需要至少高出 10%
		threshold := new(big.Int).Div(new(big.Int).Mul(existing.GasFeeCap(), big.NewInt(110)), big.NewInt(100))
		if tx.GasFeeCap().Cmp(threshold) < 0 {
			return common.Hash{}, gateway.Classify(g.ID, "submit", errors.New("replacement transaction underpriced"))
		}
	}

	g.pending[from][tx.Nonce()] = tx
	g.accepted = append(g.accepted, tx)

	if g.AutoMine {
		g.mineLocked(from)
	}

	return tx.Hash(), nil
}

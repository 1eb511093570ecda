package balance

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type storeKey struct {
	chainID int64
	address common.Address
}

// MemoryStore 进程内缓存
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[storeKey]Balance
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[storeKey]Balance)}
}

func (m *MemoryStore) Get(_ context.Context, chainID int64, address common.Address) (*Balance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.entries[storeKey{chainID, address}]
	if !ok {
		return nil, ErrNotCached
	}

	b.Wei = new(big.Int).Set(b.Wei)
	return &b, nil
}

func (m *MemoryStore) Put(_ context.Context, balance *Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := *balance
	b.Wei = new(big.Int).Set(balance.Wei)
	m.entries[storeKey{balance.ChainID, balance.Address}] = b

	return nil
}

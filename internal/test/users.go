package test

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/data/users"
)

// FakeUsers is an in-memory replacement for the users table.
// An empty address models a user without a wallet.
type FakeUsers struct {
	mu        sync.Mutex
	addresses map[int64]string
}

func NewFakeUsers() *FakeUsers {
	return &FakeUsers{addresses: make(map[int64]string)}
}

func (u *FakeUsers) Add(exchangeUserID int64, address string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.addresses[exchangeUserID] = address
}

func (u *FakeUsers) AddressForExchangeUser(_ context.Context, exchangeUserID int64) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	addr, ok := u.addresses[exchangeUserID]
	if !ok {
		return "", errors.Wrapf(users.ErrUserNotFound, "exchange user %d", exchangeUserID)
	}
	if len(addr) == 0 {
		return "", errors.Wrapf(users.ErrNoAddress, "exchange user %d", exchangeUserID)
	}

	return addr, nil
}

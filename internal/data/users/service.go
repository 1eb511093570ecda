package users

import (
	"context"
	"database/sql"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/pkg/errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoAddress    = errors.New("user does not have an address")
)

// Service 查询交易所用户绑定的钱包地址
type Service struct {
	db boil.ContextExecutor
}

func NewService(db boil.ContextExecutor) *Service {
	return &Service{db: db}
}

type userRow struct {
	ID      int64       `boil:"id"`
	Address null.String `boil:"address"`
}

// AddressForExchangeUser returns the wallet address stored for the exchange user.
func (s *Service) AddressForExchangeUser(ctx context.Context, exchangeUserID int64) (string, error) {
	if s.db == nil {
		return "", errors.New("users: database is not configured")
	}

	var row userRow
	err := queries.Raw(`SELECT id, address FROM users WHERE exchange_user_id = $1 LIMIT 1`, exchangeUserID).
		Bind(ctx, s.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errors.Wrapf(ErrUserNotFound, "exchange user %d", exchangeUserID)
		}
		return "", errors.Wrap(err, "failed to query user")
	}

	if !row.Address.Valid || len(row.Address.String) == 0 {
		return "", errors.Wrapf(ErrNoAddress, "user %d", exchangeUserID)
	}

	return row.Address.String, nil
}

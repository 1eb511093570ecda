package balance

import (
	"context"
	"database/sql"
	"math/big"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/wallet"
)

const (
	selectBalanceSQL = `
		SELECT chain_id, address, amount_wei::text AS amount_wei, last_refreshed_at
		FROM exchange_balances
		WHERE chain_id = $1 AND address = $2`

	upsertBalanceSQL = `
		INSERT INTO exchange_balances (chain_id, address, amount_wei, last_refreshed_at)
		VALUES ($1, $2, $3::numeric, $4)
		ON CONFLICT (chain_id, address) DO UPDATE
		SET amount_wei = EXCLUDED.amount_wei,
			last_refreshed_at = EXCLUDED.last_refreshed_at,
			updated_at = now()`
)

type balanceRow struct {
	ChainID         int64     `boil:"chain_id"`
	Address         string    `boil:"address"`
	AmountWei       string    `boil:"amount_wei"`
	LastRefreshedAt time.Time `boil:"last_refreshed_at"`
}

// PostgresStore 持久化到 exchange_balances 表，重启后缓存仍然有效
type PostgresStore struct {
	db boil.ContextExecutor
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db boil.ContextExecutor) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, chainID int64, address common.Address) (*Balance, error) {
	var row balanceRow
	err := queries.Raw(selectBalanceSQL, chainID, address.Hex()).Bind(ctx, p.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotCached
		}
		return nil, errors.Wrap(err, "failed to query exchange balance")
	}

	wei, ok := new(big.Int).SetString(row.AmountWei, 10)
	if !ok {
		return nil, errors.Errorf("invalid cached amount %q", row.AmountWei)
	}

	return &Balance{
		ChainID:         row.ChainID,
		Address:         common.HexToAddress(row.Address),
		Wei:             wei,
		Amount:          wallet.WeiToEther(wei),
		LastRefreshedAt: row.LastRefreshedAt.UTC(),
	}, nil
}

func (p *PostgresStore) Put(ctx context.Context, balance *Balance) error {
	_, err := queries.Raw(upsertBalanceSQL,
		balance.ChainID,
		balance.Address.Hex(),
		balance.Wei.String(),
		balance.LastRefreshedAt,
	).ExecContext(ctx, p.db)
	if err != nil {
		return errors.Wrap(err, "failed to upsert exchange balance")
	}

	return nil
}

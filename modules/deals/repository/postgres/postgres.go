package postgres

import (
	"context"

	"github.com/assetdeal/registry-network/internal/postgres"
	"github.com/assetdeal/registry-network/modules/deals/datagateway"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

var (
	_ datagateway.DealsDataGateway       = (*Repository)(nil)
	_ datagateway.DealsDataGatewayWithTx = (*txRepository)(nil)
)

type Repository struct {
	db postgres.TxQueryable
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) BeginDealsTx(ctx context.Context) (datagateway.DealsDataGatewayWithTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &txRepository{Repository: Repository{db: tx}, tx: tx}, nil
}

type txRepository struct {
	Repository
	tx pgx.Tx
}

func (r *txRepository) Commit(ctx context.Context) error {
	if err := r.tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func (r *txRepository) Rollback(ctx context.Context) error {
	err := r.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Wrap(err, "failed to rollback transaction")
	}
	return nil
}

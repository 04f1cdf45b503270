package postgres

import (
	"context"

	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectDealColumns = `id, ledger_address, token_id, seller, price, tax, state, buyer, created_at, closed_at`

func (r *Repository) scanDeal(row pgx.Row) (*entity.Deal, error) {
	var m dealModel
	if err := row.Scan(&m.Id, &m.LedgerAddress, &m.TokenId, &m.Seller, &m.Price, &m.Tax, &m.State, &m.Buyer, &m.CreatedAt, &m.ClosedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	deal, err := mapDealModelToType(m)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return deal, nil
}

func (r *Repository) GetDealById(ctx context.Context, id deals.DealId) (*entity.Deal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectDealColumns+` FROM deals WHERE id = $1`, id.String())
	return r.scanDeal(row)
}

func (r *Repository) GetDeals(ctx context.Context, limit int32, offset int32) ([]*entity.Deal, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectDealColumns+` FROM deals ORDER BY created_at DESC, id LIMIT NULLIF($1, -1) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	list := make([]*entity.Deal, 0)
	for rows.Next() {
		var m dealModel
		if err := rows.Scan(&m.Id, &m.LedgerAddress, &m.TokenId, &m.Seller, &m.Price, &m.Tax, &m.State, &m.Buyer, &m.CreatedAt, &m.ClosedAt); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		deal, err := mapDealModelToType(m)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		list = append(list, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return list, nil
}

func (r *Repository) CreateDeal(ctx context.Context, deal *entity.Deal) error {
	price, err := numericFromUint128(deal.Price)
	if err != nil {
		return errors.Wrap(err, "failed to map price")
	}
	tax, err := numericFromUint128(deal.Tax)
	if err != nil {
		return errors.Wrap(err, "failed to map tax")
	}
	closedAt := pgtype.Timestamptz{}
	if deal.ClosedAt != nil {
		closedAt = pgtype.Timestamptz{Time: *deal.ClosedAt, Valid: true}
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO deals (id, ledger_address, token_id, seller, price, tax, state, buyer, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		deal.Id.String(), deal.LedgerAddress.String(), int64(deal.TokenId), deal.Seller.String(), price, tax, deal.State.String(), buyerToModel(deal.Buyer), deal.CreatedAt, closedAt,
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateDeal(ctx context.Context, deal *entity.Deal) error {
	price, err := numericFromUint128(deal.Price)
	if err != nil {
		return errors.Wrap(err, "failed to map price")
	}
	tax, err := numericFromUint128(deal.Tax)
	if err != nil {
		return errors.Wrap(err, "failed to map tax")
	}
	closedAt := pgtype.Timestamptz{}
	if deal.ClosedAt != nil {
		closedAt = pgtype.Timestamptz{Time: *deal.ClosedAt, Valid: true}
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE deals
		SET ledger_address = $2, token_id = $3, seller = $4, price = $5, tax = $6, state = $7, buyer = $8, created_at = $9, closed_at = $10
		WHERE id = $1`,
		deal.Id.String(), deal.LedgerAddress.String(), int64(deal.TokenId), deal.Seller.String(), price, tax, deal.State.String(), buyerToModel(deal.Buyer), deal.CreatedAt, closedAt,
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

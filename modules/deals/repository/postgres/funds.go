package postgres

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) BalanceOf(ctx context.Context, address common.Address) (uint128.Uint128, error) {
	var balance pgtype.Numeric
	err := r.db.QueryRow(ctx, `SELECT balance FROM fund_accounts WHERE address = $1`, address.String()).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uint128.Zero, nil
		}
		return uint128.Zero, errors.Wrap(err, "error during query")
	}
	result, err := uint128FromNumeric(balance)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to parse balance")
	}
	return result, nil
}

func (r *Repository) Deposit(ctx context.Context, address common.Address, amount uint128.Uint128) error {
	balance, err := r.BalanceOf(ctx, address)
	if err != nil {
		return errors.WithStack(err)
	}
	if balance.Cmp(uint128.Max.Sub(amount)) > 0 {
		return errors.Wrap(errs.InvalidAmount, "deposit overflows balance")
	}
	return r.setBalance(ctx, address, balance.Add(amount))
}

func (r *Repository) Transfer(ctx context.Context, from common.Address, to common.Address, amount uint128.Uint128) error {
	fromBalance, err := r.BalanceOf(ctx, from)
	if err != nil {
		return errors.WithStack(err)
	}
	if fromBalance.Cmp(amount) < 0 {
		return errors.Wrap(errs.InsufficientPayment, "source balance is short")
	}
	if from == to {
		return nil
	}
	toBalance, err := r.BalanceOf(ctx, to)
	if err != nil {
		return errors.WithStack(err)
	}
	if toBalance.Cmp(uint128.Max.Sub(amount)) > 0 {
		return errors.Wrap(errs.InvalidAmount, "transfer overflows destination balance")
	}
	if err := r.setBalance(ctx, from, fromBalance.Sub(amount)); err != nil {
		return errors.WithStack(err)
	}
	if err := r.setBalance(ctx, to, toBalance.Add(amount)); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (r *Repository) setBalance(ctx context.Context, address common.Address, balance uint128.Uint128) error {
	value, err := numericFromUint128(balance)
	if err != nil {
		return errors.Wrap(err, "failed to map balance")
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO fund_accounts (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET balance = EXCLUDED.balance`,
		address.String(), value,
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

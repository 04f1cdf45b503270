package deals

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

// Deposit credits the account's fund balance and returns the new balance.
func (p *Processor) Deposit(ctx context.Context, to common.Address, amount uint128.Uint128) (uint128.Uint128, error) {
	if to.IsZero() {
		return uint128.Zero, errors.Wrap(errs.InvalidArgument, "deposit recipient must not be the zero address")
	}
	if amount.IsZero() {
		return uint128.Zero, errors.Wrap(errs.InvalidArgument, "deposit amount must be positive")
	}

	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	tx, err := p.dealsDg.BeginDealsTx(ctx)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	if err := tx.Deposit(ctx, to, amount); err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to deposit")
	}
	balance, err := tx.BalanceOf(ctx, to)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to get balance")
	}
	if err := tx.Commit(ctx); err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "deposited funds",
		slogx.Stringer("to", to),
		slogx.String("amount", amount.String()),
	)
	return balance, nil
}

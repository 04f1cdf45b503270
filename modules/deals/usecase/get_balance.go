package usecase

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

// BalanceOf returns the fund account balance. Accounts without a deposit
// history hold zero.
func (u *Usecase) BalanceOf(ctx context.Context, address common.Address) (uint128.Uint128, error) {
	balance, err := u.dealsDg.BalanceOf(ctx, address)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to get balance")
	}
	return balance, nil
}

package datagateway

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/gaze-network/uint128"
)

// FundsDataGateway tracks the fund account balances the deal engine settles
// against. It stands in for the external wallet system: buyers deposit into
// it and settlement moves price and tax out of it.
type FundsDataGateway interface {
	// BalanceOf returns the account balance. Accounts without a deposit
	// history hold zero.
	BalanceOf(ctx context.Context, address common.Address) (uint128.Uint128, error)

	// Deposit credits the account, creating it if needed. Returns
	// errs.InvalidAmount when the credit would overflow the balance.
	Deposit(ctx context.Context, address common.Address, amount uint128.Uint128) error

	// Transfer moves amount from one account to another. Returns
	// errs.InsufficientPayment when the source balance is short.
	Transfer(ctx context.Context, from common.Address, to common.Address, amount uint128.Uint128) error
}

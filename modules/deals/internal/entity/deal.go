package entity

import (
	"time"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/gaze-network/uint128"
)

// Deal is one listing slot, keyed by the terms-derived deal id. The slot is
// reused when the same token is re-listed at the same price after a
// settlement: the terms fields are overwritten and the state flips back to
// Open.
type Deal struct {
	Id            deals.DealId
	LedgerAddress common.Address
	TokenId       uint64
	Seller        common.Address
	Price         uint128.Uint128
	Tax           uint128.Uint128
	State         deals.DealState

	// Buyer is the zero address until the deal settles.
	Buyer     common.Address
	CreatedAt time.Time
	ClosedAt  *time.Time
}

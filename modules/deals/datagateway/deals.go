package datagateway

import (
	"context"

	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
)

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type DealsDataGateway interface {
	DealsReader
	DealsWriter
	FundsDataGateway

	// BeginDealsTx returns a gateway whose writes take effect only on
	// Commit. The settlement path closes the deal and moves funds in one
	// such transaction.
	BeginDealsTx(ctx context.Context) (DealsDataGatewayWithTx, error)
}

type DealsDataGatewayWithTx interface {
	DealsReader
	DealsWriter
	FundsDataGateway
	Tx
}

type DealsReader interface {
	// GetDealById returns the deal slot at the given id. Returns
	// errs.NotFound if no deal was ever created there.
	GetDealById(ctx context.Context, id deals.DealId) (*entity.Deal, error)

	// GetDeals returns deal slots ordered by creation time, newest first.
	// Use limit = -1 as no limit.
	GetDeals(ctx context.Context, limit int32, offset int32) ([]*entity.Deal, error)
}

type DealsWriter interface {
	CreateDeal(ctx context.Context, deal *entity.Deal) error

	// UpdateDeal overwrites the slot at deal.Id. Returns errs.NotFound if
	// the slot does not exist.
	UpdateDeal(ctx context.Context, deal *entity.Deal) error
}

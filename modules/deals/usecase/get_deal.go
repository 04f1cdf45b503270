package usecase

import (
	"context"

	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/cockroachdb/errors"
)

// GetDeal returns the deal slot at the given id. Returns errs.NoSuchDeal if
// no deal was ever created with those terms.
func (u *Usecase) GetDeal(ctx context.Context, id deals.DealId) (*entity.Deal, error) {
	deal, err := u.dealsDg.GetDealById(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(errs.NoSuchDeal)
		}
		return nil, errors.Wrap(err, "failed to get deal by id")
	}
	return deal, nil
}

// GetDeals returns deal slots, newest first. Use limit = -1 as no limit.
func (u *Usecase) GetDeals(ctx context.Context, limit int32, offset int32) ([]*entity.Deal, error) {
	list, err := u.dealsDg.GetDeals(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deals")
	}
	return list, nil
}

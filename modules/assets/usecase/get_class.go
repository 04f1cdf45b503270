package usecase

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
)

// GetClass returns the class registered at the given id. Returns
// errs.NotFound if no class exists.
func (u *Usecase) GetClass(ctx context.Context, id assets.ClassId) (*entity.AssetClass, error) {
	class, err := u.assetsDg.GetClassById(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to get class by id")
	}
	return class, nil
}

// GetClasses returns registered classes. Use limit = -1 as no limit.
func (u *Usecase) GetClasses(ctx context.Context, limit int32, offset int32) ([]*entity.AssetClass, error) {
	classes, err := u.assetsDg.GetClasses(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get classes")
	}
	return classes, nil
}

// LookupLedger returns the ledger address deployed for the class. Returns
// errs.NotFound if the class was never registered.
func (u *Usecase) LookupLedger(ctx context.Context, id assets.ClassId) (common.Address, error) {
	class, err := u.GetClass(ctx, id)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return class.LedgerAddress, nil
}

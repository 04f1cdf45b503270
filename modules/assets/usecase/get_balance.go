package usecase

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
)

// BalanceOf returns the number of live tokens the owner holds in the class.
func (u *Usecase) BalanceOf(ctx context.Context, classId assets.ClassId, owner common.Address) (uint64, error) {
	count, err := u.assetsDg.CountTokensByOwner(ctx, classId, owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count tokens by owner")
	}
	return count, nil
}

// TokenOfOwnerByIndex returns the token at the given position of the owner's
// enumeration. Returns errs.IndexOutOfRange when index >= balanceOf(owner).
func (u *Usecase) TokenOfOwnerByIndex(ctx context.Context, classId assets.ClassId, owner common.Address, index uint64) (uint64, error) {
	token, err := u.assetsDg.GetTokenByOwnerIndex(ctx, classId, owner, index)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return 0, errors.WithStack(errs.IndexOutOfRange)
		}
		return 0, errors.Wrap(err, "failed to get token by owner index")
	}
	return token.TokenId, nil
}

// GetTokensByOwner returns the owner's tokens in enumeration order.
func (u *Usecase) GetTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) ([]*entity.Token, error) {
	tokens, err := u.assetsDg.GetTokensByOwner(ctx, classId, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tokens by owner")
	}
	return tokens, nil
}

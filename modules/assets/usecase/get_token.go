package usecase

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
)

// GetToken returns a live token. Returns errs.NoSuchToken for unminted and
// burned ids alike.
func (u *Usecase) GetToken(ctx context.Context, classId assets.ClassId, tokenId uint64) (*entity.Token, error) {
	token, err := u.assetsDg.GetToken(ctx, classId, tokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(errs.NoSuchToken)
		}
		return nil, errors.Wrap(err, "failed to get token")
	}
	return token, nil
}

// OwnerOf returns the current owner of the token.
func (u *Usecase) OwnerOf(ctx context.Context, classId assets.ClassId, tokenId uint64) (common.Address, error) {
	token, err := u.GetToken(ctx, classId, tokenId)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return token.Owner, nil
}

// GetApproved returns the approved spender, or the zero address when the
// approval slot is empty.
func (u *Usecase) GetApproved(ctx context.Context, classId assets.ClassId, tokenId uint64) (common.Address, error) {
	token, err := u.GetToken(ctx, classId, tokenId)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return token.ApprovedSpender, nil
}

package entity

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/modules/assets/assets"
)

// Token is one minted token in a class ledger. TokenIds are assigned
// sequentially from 1 within the class. ApprovedSpender is the single-slot
// transfer approval; the zero address means no approval.
type Token struct {
	ClassId         assets.ClassId
	TokenId         uint64
	Owner           common.Address
	TokenURI        string
	ApprovedSpender common.Address

	// OwnerIndex is the token's position in its owner's enumeration,
	// contiguous in [0, balanceOf(owner)).
	OwnerIndex uint64
}

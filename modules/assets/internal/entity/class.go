package entity

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/modules/assets/assets"
)

// AssetClass is a registered class together with its ledger bookkeeping.
// Immutable after creation except for MintedCount, which tracks lifetime
// mints (burns do not decrement it, so the supply cap counts every token
// ever minted).
type AssetClass struct {
	Id            assets.ClassId
	Name          string
	Symbol        string
	SupplyCap     uint64
	MetadataURI   string
	ClassOwner    common.Address
	LedgerAddress common.Address
	MintedCount   uint64
}

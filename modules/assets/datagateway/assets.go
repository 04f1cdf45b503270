package datagateway

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
)

type Tx interface {
	// Commit persists all changes made within the transaction.
	Commit(ctx context.Context) error
	// Rollback discards the transaction. Safe to call after Commit (no-op).
	Rollback(ctx context.Context) error
}

type AssetsDataGateway interface {
	AssetsReaderDataGateway
	AssetsWriterDataGateway

	// BeginAssetsTx returns a new AssetsDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginAssetsTx(ctx context.Context) (AssetsDataGatewayWithTx, error)
}

type AssetsDataGatewayWithTx interface {
	AssetsDataGateway
	Tx
}

type AssetsReaderDataGateway interface {
	// GetClassById returns the class registered at the given id. Returns errs.NotFound if no class exists.
	GetClassById(ctx context.Context, id assets.ClassId) (*entity.AssetClass, error)
	// GetClassByLedgerAddress resolves a ledger handle back to its class. Returns errs.NotFound if no class exists.
	GetClassByLedgerAddress(ctx context.Context, ledgerAddress common.Address) (*entity.AssetClass, error)
	// GetClasses returns registered classes ordered by name. Use limit = -1 as no limit.
	GetClasses(ctx context.Context, limit int32, offset int32) ([]*entity.AssetClass, error)

	// GetToken returns a live token. Returns errs.NotFound for never-minted and burned ids alike.
	GetToken(ctx context.Context, classId assets.ClassId, tokenId uint64) (*entity.Token, error)
	// CountTokensByOwner returns the number of live tokens the owner holds in the class.
	CountTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) (uint64, error)
	// GetTokenByOwnerIndex returns the token at the given position of the owner's enumeration. Returns errs.NotFound if the position is vacant.
	GetTokenByOwnerIndex(ctx context.Context, classId assets.ClassId, owner common.Address, index uint64) (*entity.Token, error)
	// GetTokensByOwner returns the owner's tokens in enumeration order.
	GetTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) ([]*entity.Token, error)
}

type AssetsWriterDataGateway interface {
	CreateClass(ctx context.Context, class *entity.AssetClass) error
	// SetClassMintedCount records a new lifetime mint count for the class.
	SetClassMintedCount(ctx context.Context, classId assets.ClassId, mintedCount uint64) error

	CreateToken(ctx context.Context, token *entity.Token) error
	// UpdateToken rewrites the mutable token fields (owner, approval, owner index).
	UpdateToken(ctx context.Context, token *entity.Token) error
	DeleteToken(ctx context.Context, classId assets.ClassId, tokenId uint64) error
}

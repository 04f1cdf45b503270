package assets

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/internal/statelock"
	assetsvalues "github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/datagateway"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
)

// Processor owns every state-changing operation of the class registry and the
// per-class ledgers. Each operation holds the shared state lock for its whole
// duration and runs inside one datagateway transaction, so it is atomic to
// all observers.
type Processor struct {
	assetsDg      datagateway.AssetsDataGateway
	stateLock     *statelock.Lock
	administrator common.Address
}

func NewProcessor(assetsDg datagateway.AssetsDataGateway, stateLock *statelock.Lock, administrator common.Address) *Processor {
	return &Processor{
		assetsDg:      assetsDg,
		stateLock:     stateLock,
		administrator: administrator,
	}
}

// RegisterClass registers a new asset class and deploys its ledger. Only the
// registry administrator may call it. The class id is content-derived, so a
// second registration with the same name/symbol/uri fails with DuplicateClass
// regardless of supply cap or owner.
func (p *Processor) RegisterClass(ctx context.Context, caller common.Address, name string, symbol string, supplyCap uint64, metadataURI string, classOwner common.Address) (assetsvalues.ClassId, error) {
	if caller != p.administrator {
		return assetsvalues.ClassId{}, errors.WithStack(errs.Unauthorized)
	}
	if name == "" || symbol == "" {
		return assetsvalues.ClassId{}, errors.Wrap(errs.InvalidArgument, "name and symbol must not be empty")
	}
	if supplyCap == 0 {
		return assetsvalues.ClassId{}, errors.Wrap(errs.InvalidArgument, "supply cap must be positive")
	}
	if classOwner.IsZero() {
		return assetsvalues.ClassId{}, errors.Wrap(errs.InvalidArgument, "class owner must not be the zero address")
	}

	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	tx, err := p.assetsDg.BeginAssetsTx(ctx)
	if err != nil {
		return assetsvalues.ClassId{}, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	classId := assetsvalues.NewClassId(name, symbol, metadataURI)
	if _, err := tx.GetClassById(ctx, classId); err == nil {
		return assetsvalues.ClassId{}, errors.WithStack(errs.DuplicateClass)
	} else if !errors.Is(err, errs.NotFound) {
		return assetsvalues.ClassId{}, errors.Wrap(err, "failed to get class by id")
	}

	class := &entity.AssetClass{
		Id:            classId,
		Name:          name,
		Symbol:        symbol,
		SupplyCap:     supplyCap,
		MetadataURI:   metadataURI,
		ClassOwner:    classOwner,
		LedgerAddress: assetsvalues.LedgerAddress(classId),
		MintedCount:   0,
	}
	if err := tx.CreateClass(ctx, class); err != nil {
		return assetsvalues.ClassId{}, errors.Wrap(err, "failed to create class")
	}
	if err := tx.Commit(ctx); err != nil {
		return assetsvalues.ClassId{}, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "registered asset class",
		slogx.Stringer("classId", classId),
		slogx.String("name", name),
		slogx.String("symbol", symbol),
		slogx.Uint64("supplyCap", supplyCap),
		slogx.Stringer("ledgerAddress", class.LedgerAddress),
	)
	return classId, nil
}

// Mint creates the next token of the class and assigns it to `to`. Only the
// class owner may mint. Token ids are assigned sequentially from 1; once
// MintedCount reaches the supply cap no further mint succeeds, burns
// included.
func (p *Processor) Mint(ctx context.Context, caller common.Address, classId assetsvalues.ClassId, to common.Address, tokenURI string) (uint64, error) {
	if to.IsZero() {
		return 0, errors.Wrap(errs.InvalidArgument, "mint recipient must not be the zero address")
	}

	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	tx, err := p.assetsDg.BeginAssetsTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	class, err := tx.GetClassById(ctx, classId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return 0, errors.WithStack(errs.NotFound)
		}
		return 0, errors.Wrap(err, "failed to get class by id")
	}
	if caller != class.ClassOwner {
		return 0, errors.WithStack(errs.Unauthorized)
	}
	if class.MintedCount == class.SupplyCap {
		return 0, errors.WithStack(errs.SupplyExceeded)
	}

	balance, err := tx.CountTokensByOwner(ctx, classId, to)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count tokens by owner")
	}

	tokenId := class.MintedCount + 1
	token := &entity.Token{
		ClassId:    classId,
		TokenId:    tokenId,
		Owner:      to,
		TokenURI:   tokenURI,
		OwnerIndex: balance,
	}
	if err := tx.CreateToken(ctx, token); err != nil {
		return 0, errors.Wrap(err, "failed to create token")
	}
	if err := tx.SetClassMintedCount(ctx, classId, tokenId); err != nil {
		return 0, errors.Wrap(err, "failed to set minted count")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	p.logOwnershipChange(ctx, classId, tokenId, common.ZeroAddress, to)
	return tokenId, nil
}

// Approve sets the single approved spender for the token, overwriting any
// prior approval. Approving the zero address clears the slot.
func (p *Processor) Approve(ctx context.Context, caller common.Address, classId assetsvalues.ClassId, spender common.Address, tokenId uint64) error {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	tx, err := p.assetsDg.BeginAssetsTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	token, err := tx.GetToken(ctx, classId, tokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(errs.NoSuchToken)
		}
		return errors.Wrap(err, "failed to get token")
	}
	if caller != token.Owner {
		return errors.WithStack(errs.NotOwner)
	}

	token.ApprovedSpender = spender
	if err := tx.UpdateToken(ctx, token); err != nil {
		return errors.Wrap(err, "failed to update token")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// TransferFrom reassigns token ownership. The caller must be the current
// owner or the approved spender; `from` must be the current owner. The
// approval slot is cleared on success.
func (p *Processor) TransferFrom(ctx context.Context, caller common.Address, classId assetsvalues.ClassId, from common.Address, tokenId uint64, to common.Address) error {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()
	return p.transferFrom(ctx, caller, classId, from, tokenId, to)
}

// transferFrom is TransferFrom without taking the state lock. The deal engine
// calls it during settlement while already holding the lock.
func (p *Processor) transferFrom(ctx context.Context, caller common.Address, classId assetsvalues.ClassId, from common.Address, tokenId uint64, to common.Address) error {
	if to.IsZero() {
		return errors.Wrap(errs.InvalidArgument, "transfer recipient must not be the zero address")
	}

	tx, err := p.assetsDg.BeginAssetsTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	token, err := tx.GetToken(ctx, classId, tokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(errs.NoSuchToken)
		}
		return errors.Wrap(err, "failed to get token")
	}
	if from != token.Owner {
		return errors.WithStack(errs.NotOwner)
	}
	if caller != from && caller != token.ApprovedSpender {
		return errors.WithStack(errs.NotApprovedOrOwner)
	}

	if from == to {
		// self transfer only clears the approval
		token.ApprovedSpender = common.ZeroAddress
		if err := tx.UpdateToken(ctx, token); err != nil {
			return errors.Wrap(err, "failed to update token")
		}
		if err := tx.Commit(ctx); err != nil {
			return errors.Wrap(err, "failed to commit transaction")
		}
		return nil
	}

	if err := p.removeFromEnumeration(ctx, tx, token); err != nil {
		return errors.Wrap(err, "failed to remove token from owner enumeration")
	}

	newBalance, err := tx.CountTokensByOwner(ctx, classId, to)
	if err != nil {
		return errors.Wrap(err, "failed to count tokens by owner")
	}
	token.Owner = to
	token.ApprovedSpender = common.ZeroAddress
	token.OwnerIndex = newBalance
	if err := tx.UpdateToken(ctx, token); err != nil {
		return errors.Wrap(err, "failed to update token")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	p.logOwnershipChange(ctx, classId, tokenId, from, to)
	return nil
}

// Burn destroys a live token. Burning a never-minted or already-burned id
// fails with NoSuchToken. MintedCount is not decremented: the supply cap
// tracks lifetime mints, so burn cycles cannot bypass it.
func (p *Processor) Burn(ctx context.Context, caller common.Address, classId assetsvalues.ClassId, tokenId uint64) error {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	tx, err := p.assetsDg.BeginAssetsTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	token, err := tx.GetToken(ctx, classId, tokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(errs.NoSuchToken)
		}
		return errors.Wrap(err, "failed to get token")
	}
	if caller != token.Owner && caller != token.ApprovedSpender {
		return errors.WithStack(errs.NotApprovedOrOwner)
	}

	if err := p.removeFromEnumeration(ctx, tx, token); err != nil {
		return errors.Wrap(err, "failed to remove token from owner enumeration")
	}
	if err := tx.DeleteToken(ctx, classId, tokenId); err != nil {
		return errors.Wrap(err, "failed to delete token")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	p.logOwnershipChange(ctx, classId, tokenId, token.Owner, common.ZeroAddress)
	return nil
}

// removeFromEnumeration detaches the token from its owner's enumeration with
// a swap-and-pop: the owner's last token takes the vacated position, keeping
// the index contiguous in [0, balanceOf). The token itself is not written.
func (p *Processor) removeFromEnumeration(ctx context.Context, tx datagateway.AssetsDataGatewayWithTx, token *entity.Token) error {
	balance, err := tx.CountTokensByOwner(ctx, token.ClassId, token.Owner)
	if err != nil {
		return errors.Wrap(err, "failed to count tokens by owner")
	}
	last, err := tx.GetTokenByOwnerIndex(ctx, token.ClassId, token.Owner, balance-1)
	if err != nil {
		return errors.Wrap(err, "failed to get owner's last token")
	}
	if last.TokenId != token.TokenId {
		last.OwnerIndex = token.OwnerIndex
		if err := tx.UpdateToken(ctx, last); err != nil {
			return errors.Wrap(err, "failed to move owner's last token")
		}
	}
	return nil
}

func (p *Processor) logOwnershipChange(ctx context.Context, classId assetsvalues.ClassId, tokenId uint64, from common.Address, to common.Address) {
	logger.InfoContext(ctx, "token ownership changed",
		slogx.Stringer("classId", classId),
		slogx.Uint64("tokenId", tokenId),
		slogx.Stringer("from", from),
		slogx.Stringer("to", to),
	)
}

package deals

import (
	"context"
	"time"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/internal/statelock"
	"github.com/assetdeal/registry-network/modules/deals/datagateway"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

// AssetLedger is the ownership and approval surface the deal engine needs
// from a class ledger. The engine never touches token storage directly: it
// verifies ownership, inspects the approval slot and executes the approved
// transfer through this interface.
//
// TransferFrom must not take the shared state lock; the engine calls it while
// already holding the lock for the whole settlement.
type AssetLedger interface {
	Exists(ctx context.Context, ledgerAddress common.Address) (bool, error)
	OwnerOf(ctx context.Context, ledgerAddress common.Address, tokenId uint64) (common.Address, error)
	GetApproved(ctx context.Context, ledgerAddress common.Address, tokenId uint64) (common.Address, error)
	TransferFrom(ctx context.Context, caller common.Address, ledgerAddress common.Address, from common.Address, tokenId uint64, to common.Address) error
}

// Processor is the escrow deal engine. It lists tokens for direct sale and
// settles payment against delivery atomically: the buyer is charged exactly
// when token ownership moves, never otherwise.
type Processor struct {
	dealsDg   datagateway.DealsDataGateway
	ledger    AssetLedger
	stateLock *statelock.Lock
	taxSink   common.Address
}

func NewProcessor(dealsDg datagateway.DealsDataGateway, ledger AssetLedger, stateLock *statelock.Lock, taxSink common.Address) *Processor {
	return &Processor{
		dealsDg:   dealsDg,
		ledger:    ledger,
		stateLock: stateLock,
		taxSink:   taxSink,
	}
}

// GetDealId derives the deal id for the given terms without touching state.
func (p *Processor) GetDealId(ledgerAddress common.Address, tokenId uint64, price uint128.Uint128) deals.DealId {
	return deals.NewDealId(ledgerAddress, tokenId, price)
}

// CreateDirectDeal lists a token for direct sale at a fixed price plus tax.
// The caller must own the token and must have approved deals.EngineAddress
// as its spender beforehand, otherwise settlement could never deliver. The
// deal id is derived from the terms; listing the same token at the same
// price while that deal is still open fails with DealAlreadyOpen, while a
// settled slot is reopened with the fresh terms.
func (p *Processor) CreateDirectDeal(ctx context.Context, caller common.Address, ledgerAddress common.Address, tokenId uint64, price uint128.Uint128, tax uint128.Uint128) (deals.DealId, error) {
	// Settlement charges price + tax in one sum, so reject terms where
	// price > Max - tax and the sum cannot be represented.
	if price.Cmp(uint128.Max.Sub(tax)) > 0 {
		return deals.DealId{}, errors.Wrap(errs.InvalidAmount, "price plus tax overflows")
	}

	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	ok, err := p.ledger.Exists(ctx, ledgerAddress)
	if err != nil {
		return deals.DealId{}, errors.Wrap(err, "failed to resolve ledger")
	}
	if !ok {
		return deals.DealId{}, errors.Wrap(errs.NotFound, "no ledger at address")
	}
	owner, err := p.ledger.OwnerOf(ctx, ledgerAddress, tokenId)
	if err != nil {
		return deals.DealId{}, errors.WithStack(err)
	}
	if caller != owner {
		return deals.DealId{}, errors.WithStack(errs.NotOwner)
	}
	approved, err := p.ledger.GetApproved(ctx, ledgerAddress, tokenId)
	if err != nil {
		return deals.DealId{}, errors.WithStack(err)
	}
	if approved != deals.EngineAddress {
		return deals.DealId{}, errors.Wrap(errs.NotApproved, "token is not approved to the deal engine")
	}

	tx, err := p.dealsDg.BeginDealsTx(ctx)
	if err != nil {
		return deals.DealId{}, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	dealId := deals.NewDealId(ledgerAddress, tokenId, price)
	deal := &entity.Deal{
		Id:            dealId,
		LedgerAddress: ledgerAddress,
		TokenId:       tokenId,
		Seller:        caller,
		Price:         price,
		Tax:           tax,
		State:         deals.DealStateOpen,
		Buyer:         common.ZeroAddress,
		CreatedAt:     time.Now().UTC(),
		ClosedAt:      nil,
	}

	existing, err := tx.GetDealById(ctx, dealId)
	if err == nil {
		if existing.State == deals.DealStateOpen {
			return deals.DealId{}, errors.WithStack(errs.DealAlreadyOpen)
		}
		if err := tx.UpdateDeal(ctx, deal); err != nil {
			return deals.DealId{}, errors.Wrap(err, "failed to reopen deal")
		}
	} else if errors.Is(err, errs.NotFound) {
		if err := tx.CreateDeal(ctx, deal); err != nil {
			return deals.DealId{}, errors.Wrap(err, "failed to create deal")
		}
	} else {
		return deals.DealId{}, errors.Wrap(err, "failed to get deal by id")
	}
	if err := tx.Commit(ctx); err != nil {
		return deals.DealId{}, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "created direct deal",
		slogx.Stringer("dealId", dealId),
		slogx.Stringer("ledgerAddress", ledgerAddress),
		slogx.Uint64("tokenId", tokenId),
		slogx.Stringer("seller", caller),
		slogx.String("price", price.String()),
		slogx.String("tax", tax.String()),
	)
	return dealId, nil
}

// GetAssetOwner resolves the current owner of a token through the ledger,
// without looking at deal state.
func (p *Processor) GetAssetOwner(ctx context.Context, ledgerAddress common.Address, tokenId uint64) (common.Address, error) {
	owner, err := p.ledger.OwnerOf(ctx, ledgerAddress, tokenId)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return owner, nil
}

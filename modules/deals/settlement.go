package deals

import (
	"context"
	"time"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

// Settlement reports what one successful PayByEth did. Refund is the part of
// the tendered amount above price plus tax; it is never taken from the buyer
// in the first place.
type Settlement struct {
	DealId  deals.DealId
	Seller  common.Address
	Buyer   common.Address
	Price   uint128.Uint128
	Tax     uint128.Uint128
	Refund  uint128.Uint128
	TokenId uint64
}

// PayByEth settles an open deal with the caller as buyer. The tendered
// amount must cover price plus tax and must be backed by the caller's fund
// balance. Delivery and payment are atomic: the token moves seller to buyer,
// price moves buyer to seller and tax moves buyer to the tax sink, all under
// the state lock, or nothing happens at all. Only price plus tax is ever
// debited, so an overpayment stays with the buyer.
func (p *Processor) PayByEth(ctx context.Context, caller common.Address, dealId deals.DealId, amount uint128.Uint128) (*Settlement, error) {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	tx, err := p.dealsDg.BeginDealsTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	deal, err := tx.GetDealById(ctx, dealId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(errs.NoSuchDeal)
		}
		return nil, errors.Wrap(err, "failed to get deal by id")
	}
	if deal.State != deals.DealStateOpen {
		return nil, errors.WithStack(errs.DealNotOpen)
	}

	total := deal.Price.Add(deal.Tax)
	if amount.Cmp(total) < 0 {
		return nil, errors.Wrap(errs.InsufficientPayment, "amount does not cover price plus tax")
	}
	balance, err := tx.BalanceOf(ctx, caller)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get buyer balance")
	}
	if balance.Cmp(amount) < 0 {
		return nil, errors.Wrap(errs.InsufficientPayment, "buyer balance does not back the tendered amount")
	}

	// The approval or the ownership may have been pulled since listing.
	// Both must still hold right before delivery, otherwise the deal
	// cannot settle and no funds may move.
	owner, err := p.ledger.OwnerOf(ctx, deal.LedgerAddress, deal.TokenId)
	if err != nil {
		return nil, errors.Wrap(errs.SettlementFailed, "listed token no longer resolves")
	}
	if owner != deal.Seller {
		return nil, errors.Wrap(errs.SettlementFailed, "seller no longer owns the listed token")
	}
	approved, err := p.ledger.GetApproved(ctx, deal.LedgerAddress, deal.TokenId)
	if err != nil {
		return nil, errors.Wrap(errs.SettlementFailed, "listed token no longer resolves")
	}
	if approved != deals.EngineAddress {
		return nil, errors.Wrap(errs.SettlementFailed, "deal engine approval was revoked")
	}

	// The token transfer commits outside the deals transaction and cannot
	// be rolled back, so both credit legs must be known good before it
	// runs. A credit back to the caller is a self transfer and never
	// overflows; when the seller is also the tax sink the two credits
	// land on one balance and must be checked together.
	sellerCredit := deal.Price
	if deal.Seller == p.taxSink {
		sellerCredit = total
	}
	if deal.Seller != caller {
		sellerBalance, err := tx.BalanceOf(ctx, deal.Seller)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get seller balance")
		}
		if sellerBalance.Cmp(uint128.Max.Sub(sellerCredit)) > 0 {
			return nil, errors.Wrap(errs.SettlementFailed, "paying the seller would overflow their balance")
		}
	}
	if p.taxSink != caller && p.taxSink != deal.Seller {
		taxSinkBalance, err := tx.BalanceOf(ctx, p.taxSink)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get tax sink balance")
		}
		if taxSinkBalance.Cmp(uint128.Max.Sub(deal.Tax)) > 0 {
			return nil, errors.Wrap(errs.SettlementFailed, "paying the tax sink would overflow its balance")
		}
	}

	if err := p.ledger.TransferFrom(ctx, deals.EngineAddress, deal.LedgerAddress, deal.Seller, deal.TokenId, caller); err != nil {
		return nil, errors.Wrapf(errs.SettlementFailed, "token transfer failed: %v", err)
	}

	if err := tx.Transfer(ctx, caller, deal.Seller, deal.Price); err != nil {
		return nil, errors.Wrapf(errs.SettlementFailed, "failed to pay seller: %v", err)
	}
	if err := tx.Transfer(ctx, caller, p.taxSink, deal.Tax); err != nil {
		return nil, errors.Wrapf(errs.SettlementFailed, "failed to pay tax sink: %v", err)
	}

	closedAt := time.Now().UTC()
	deal.State = deals.DealStateClosed
	deal.Buyer = caller
	deal.ClosedAt = &closedAt
	if err := tx.UpdateDeal(ctx, deal); err != nil {
		return nil, errors.Wrap(err, "failed to close deal")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	settlement := &Settlement{
		DealId:  dealId,
		Seller:  deal.Seller,
		Buyer:   caller,
		Price:   deal.Price,
		Tax:     deal.Tax,
		Refund:  amount.Sub(total),
		TokenId: deal.TokenId,
	}
	logger.InfoContext(ctx, "settled deal",
		slogx.Stringer("dealId", dealId),
		slogx.Stringer("seller", deal.Seller),
		slogx.Stringer("buyer", caller),
		slogx.String("price", deal.Price.String()),
		slogx.String("tax", deal.Tax.String()),
		slogx.String("refund", settlement.Refund.String()),
	)
	return settlement, nil
}

package assets

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
)

// Ledger exposes the ownership and approval surface of a class ledger keyed
// by its ledger address. The deal engine depends on exactly this surface: it
// never touches the token tables directly, it only verifies ownership,
// inspects the approval slot and executes the authorized transfer.
//
// TransferFrom does not take the state lock; the deal engine calls it while
// already holding the lock for the whole settlement.
type Ledger struct {
	processor *Processor
}

func NewLedger(processor *Processor) *Ledger {
	return &Ledger{processor: processor}
}

func (l *Ledger) resolve(ctx context.Context, ledgerAddress common.Address) (*entity.AssetClass, error) {
	class, err := l.processor.assetsDg.GetClassByLedgerAddress(ctx, ledgerAddress)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to get class by ledger address")
	}
	return class, nil
}

// Exists reports whether a class ledger is deployed at the given address.
func (l *Ledger) Exists(ctx context.Context, ledgerAddress common.Address) (bool, error) {
	if _, err := l.resolve(ctx, ledgerAddress); err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return true, nil
}

// OwnerOf returns the current owner of the token. Returns errs.NoSuchToken
// for unminted and burned ids, errs.NotFound for an unknown ledger.
func (l *Ledger) OwnerOf(ctx context.Context, ledgerAddress common.Address, tokenId uint64) (common.Address, error) {
	class, err := l.resolve(ctx, ledgerAddress)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	token, err := l.processor.assetsDg.GetToken(ctx, class.Id, tokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return common.Address{}, errors.WithStack(errs.NoSuchToken)
		}
		return common.Address{}, errors.Wrap(err, "failed to get token")
	}
	return token.Owner, nil
}

// GetApproved returns the approved spender of the token, or the zero address
// when no approval is set.
func (l *Ledger) GetApproved(ctx context.Context, ledgerAddress common.Address, tokenId uint64) (common.Address, error) {
	class, err := l.resolve(ctx, ledgerAddress)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	token, err := l.processor.assetsDg.GetToken(ctx, class.Id, tokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return common.Address{}, errors.WithStack(errs.NoSuchToken)
		}
		return common.Address{}, errors.Wrap(err, "failed to get token")
	}
	return token.ApprovedSpender, nil
}

// TransferFrom executes the authorized transfer on behalf of `caller`. The
// caller of this method must hold the shared state lock.
func (l *Ledger) TransferFrom(ctx context.Context, caller common.Address, ledgerAddress common.Address, from common.Address, tokenId uint64, to common.Address) error {
	class, err := l.resolve(ctx, ledgerAddress)
	if err != nil {
		return errors.WithStack(err)
	}
	return l.processor.transferFrom(ctx, caller, class.Id, from, tokenId, to)
}

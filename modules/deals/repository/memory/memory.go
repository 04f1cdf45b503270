package memory

import (
	"context"
	"sync"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals/datagateway"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

// Repository is the in-memory DealsDataGateway, covering both the deal slots
// and the fund accounts. Transactions are snapshot-based like the assets
// memory gateway: Begin copies the state, Commit swaps it in. The settlement
// path relies on the deal close and both fund moves landing in one swap.
type Repository struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	deals    map[deals.DealId]*entity.Deal
	balances map[common.Address]uint128.Uint128
}

var (
	_ datagateway.DealsDataGateway       = (*Repository)(nil)
	_ datagateway.DealsDataGatewayWithTx = (*txGateway)(nil)
)

func NewRepository() *Repository {
	return &Repository{
		state: &state{
			deals:    make(map[deals.DealId]*entity.Deal),
			balances: make(map[common.Address]uint128.Uint128),
		},
	}
}

func (s *state) clone() *state {
	next := &state{
		deals:    make(map[deals.DealId]*entity.Deal, len(s.deals)),
		balances: make(map[common.Address]uint128.Uint128, len(s.balances)),
	}
	for id, deal := range s.deals {
		d := *deal
		next.deals[id] = &d
	}
	for addr, balance := range s.balances {
		next.balances[addr] = balance
	}
	return next
}

func (r *Repository) BeginDealsTx(ctx context.Context) (datagateway.DealsDataGatewayWithTx, error) {
	r.mu.RLock()
	work := r.state.clone()
	r.mu.RUnlock()
	return &txGateway{repo: r, work: work}, nil
}

type txGateway struct {
	repo *Repository
	work *state
}

func (tx *txGateway) Commit(ctx context.Context) error {
	tx.repo.mu.Lock()
	tx.repo.state = tx.work
	tx.repo.mu.Unlock()
	return nil
}

func (tx *txGateway) Rollback(ctx context.Context) error {
	// discarding the working copy is enough; no-op after commit
	return nil
}

// BeginDealsTx on a transaction gateway nests on the same working copy.
func (tx *txGateway) BeginDealsTx(ctx context.Context) (datagateway.DealsDataGatewayWithTx, error) {
	return tx, nil
}

// reader methods

func (r *Repository) GetDealById(ctx context.Context, id deals.DealId) (*entity.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getDealById(id)
}

func (tx *txGateway) GetDealById(ctx context.Context, id deals.DealId) (*entity.Deal, error) {
	return tx.work.getDealById(id)
}

func (s *state) getDealById(id deals.DealId) (*entity.Deal, error) {
	deal, ok := s.deals[id]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	d := *deal
	return &d, nil
}

func (r *Repository) GetDeals(ctx context.Context, limit int32, offset int32) ([]*entity.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getDeals(limit, offset)
}

func (tx *txGateway) GetDeals(ctx context.Context, limit int32, offset int32) ([]*entity.Deal, error) {
	return tx.work.getDeals(limit, offset)
}

func (s *state) getDeals(limit int32, offset int32) ([]*entity.Deal, error) {
	list := make([]*entity.Deal, 0, len(s.deals))
	for _, deal := range s.deals {
		d := *deal
		list = append(list, &d)
	}
	sortDealsByCreatedAtDesc(list)
	if offset > 0 {
		if int(offset) >= len(list) {
			return []*entity.Deal{}, nil
		}
		list = list[offset:]
	}
	if limit >= 0 && int(limit) < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *Repository) BalanceOf(ctx context.Context, address common.Address) (uint128.Uint128, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.balances[address], nil
}

func (tx *txGateway) BalanceOf(ctx context.Context, address common.Address) (uint128.Uint128, error) {
	return tx.work.balances[address], nil
}

// writer methods (transaction only)

func (tx *txGateway) CreateDeal(ctx context.Context, deal *entity.Deal) error {
	if _, ok := tx.work.deals[deal.Id]; ok {
		return errors.Errorf("deal %s already exists", deal.Id)
	}
	d := *deal
	tx.work.deals[deal.Id] = &d
	return nil
}

func (tx *txGateway) UpdateDeal(ctx context.Context, deal *entity.Deal) error {
	if _, ok := tx.work.deals[deal.Id]; !ok {
		return errors.WithStack(errs.NotFound)
	}
	d := *deal
	tx.work.deals[deal.Id] = &d
	return nil
}

func (tx *txGateway) Deposit(ctx context.Context, address common.Address, amount uint128.Uint128) error {
	balance := tx.work.balances[address]
	if balance.Cmp(uint128.Max.Sub(amount)) > 0 {
		return errors.Wrap(errs.InvalidAmount, "deposit overflows balance")
	}
	tx.work.balances[address] = balance.Add(amount)
	return nil
}

func (tx *txGateway) Transfer(ctx context.Context, from common.Address, to common.Address, amount uint128.Uint128) error {
	fromBalance := tx.work.balances[from]
	if fromBalance.Cmp(amount) < 0 {
		return errors.Wrap(errs.InsufficientPayment, "source balance is short")
	}
	if from == to {
		return nil
	}
	toBalance := tx.work.balances[to]
	if toBalance.Cmp(uint128.Max.Sub(amount)) > 0 {
		return errors.Wrap(errs.InvalidAmount, "transfer overflows destination balance")
	}
	tx.work.balances[from] = fromBalance.Sub(amount)
	tx.work.balances[to] = toBalance.Add(amount)
	return nil
}

// writer methods on the root repository run as implicit single-statement
// transactions.

func (r *Repository) CreateDeal(ctx context.Context, deal *entity.Deal) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.CreateDeal(ctx, deal) })
}

func (r *Repository) UpdateDeal(ctx context.Context, deal *entity.Deal) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.UpdateDeal(ctx, deal) })
}

func (r *Repository) Deposit(ctx context.Context, address common.Address, amount uint128.Uint128) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.Deposit(ctx, address, amount) })
}

func (r *Repository) Transfer(ctx context.Context, from common.Address, to common.Address, amount uint128.Uint128) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.Transfer(ctx, from, to, amount) })
}

func (r *Repository) autoCommit(ctx context.Context, fn func(tx *txGateway) error) error {
	txDg, err := r.BeginDealsTx(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	tx := txDg.(*txGateway)
	if err := fn(tx); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(tx.Commit(ctx))
}

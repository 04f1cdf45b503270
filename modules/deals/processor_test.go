package deals

import (
	"context"
	"testing"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/internal/statelock"
	"github.com/assetdeal/registry-network/modules/assets"
	assetsvalues "github.com/assetdeal/registry-network/modules/assets/assets"
	assetsmemory "github.com/assetdeal/registry-network/modules/assets/repository/memory"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	dealsmemory "github.com/assetdeal/registry-network/modules/deals/repository/memory"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var (
	admin   = testAddress(0x01)
	seller  = testAddress(0x02)
	buyer   = testAddress(0x03)
	buyer2  = testAddress(0x04)
	taxSink = testAddress(0x05)
)

var (
	price = uint128.From64(1_000_000)
	tax   = uint128.From64(1_000)
)

func testAddress(last byte) common.Address {
	var addr common.Address
	addr[common.AddressSize-1] = last
	return addr
}

type testMarket struct {
	assets    *assets.Processor
	engine    *Processor
	dealsRepo *dealsmemory.Repository

	classId       assetsvalues.ClassId
	ledgerAddress common.Address
}

// newTestMarket registers a class, mints token 1 to the seller and approves
// the deal engine as its spender, leaving everything ready to list.
func newTestMarket(t *testing.T) *testMarket {
	t.Helper()
	ctx := context.Background()

	stateLock := statelock.New()
	assetsProcessor := assets.NewProcessor(assetsmemory.NewRepository(), stateLock, admin)
	dealsRepo := dealsmemory.NewRepository()
	engine := NewProcessor(dealsRepo, assets.NewLedger(assetsProcessor), stateLock, taxSink)

	classId, err := assetsProcessor.RegisterClass(ctx, admin, "Car", "CAR", 3, "https://example.com/car.json", seller)
	require.NoError(t, err)
	tokenId, err := assetsProcessor.Mint(ctx, seller, classId, seller, "")
	require.NoError(t, err)
	require.Equal(t, uint64(1), tokenId)
	require.NoError(t, assetsProcessor.Approve(ctx, seller, classId, deals.EngineAddress, tokenId))

	return &testMarket{
		assets:        assetsProcessor,
		engine:        engine,
		dealsRepo:     dealsRepo,
		classId:       classId,
		ledgerAddress: assetsvalues.LedgerAddress(classId),
	}
}

func (m *testMarket) listToken(t *testing.T) deals.DealId {
	t.Helper()
	dealId, err := m.engine.CreateDirectDeal(context.Background(), seller, m.ledgerAddress, 1, price, tax)
	require.NoError(t, err)
	return dealId
}

func (m *testMarket) fund(t *testing.T, account common.Address, amount uint128.Uint128) {
	t.Helper()
	_, err := m.engine.Deposit(context.Background(), account, amount)
	require.NoError(t, err)
}

func (m *testMarket) balance(t *testing.T, account common.Address) uint128.Uint128 {
	t.Helper()
	balance, err := m.dealsRepo.BalanceOf(context.Background(), account)
	require.NoError(t, err)
	return balance
}

func TestCreateDirectDeal(t *testing.T) {
	ctx := context.Background()

	t.Run("lists token and derives deal id from terms", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		assert.Equal(t, m.engine.GetDealId(m.ledgerAddress, 1, price), dealId)

		deal, err := m.dealsRepo.GetDealById(ctx, dealId)
		require.NoError(t, err)
		assert.Equal(t, deals.DealStateOpen, deal.State)
		assert.Equal(t, seller, deal.Seller)
		assert.True(t, deal.Buyer.IsZero())
		assert.Equal(t, price, deal.Price)
		assert.Equal(t, tax, deal.Tax)
	})

	t.Run("rejects unknown ledger", func(t *testing.T) {
		m := newTestMarket(t)
		_, err := m.engine.CreateDirectDeal(ctx, seller, testAddress(0xee), 1, price, tax)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		m := newTestMarket(t)
		_, err := m.engine.CreateDirectDeal(ctx, buyer, m.ledgerAddress, 1, price, tax)
		assert.ErrorIs(t, err, errs.NotOwner)
	})

	t.Run("rejects token not approved to the engine", func(t *testing.T) {
		m := newTestMarket(t)
		_, err := m.assets.Mint(ctx, seller, m.classId, seller, "")
		require.NoError(t, err)
		_, err = m.engine.CreateDirectDeal(ctx, seller, m.ledgerAddress, 2, price, tax)
		assert.ErrorIs(t, err, errs.NotApproved)
	})

	t.Run("zero price and zero tax list like any other terms", func(t *testing.T) {
		m := newTestMarket(t)
		dealId, err := m.engine.CreateDirectDeal(ctx, seller, m.ledgerAddress, 1, uint128.Zero, uint128.Zero)
		require.NoError(t, err)
		assert.Equal(t, m.engine.GetDealId(m.ledgerAddress, 1, uint128.Zero), dealId)

		deal, err := m.dealsRepo.GetDealById(ctx, dealId)
		require.NoError(t, err)
		assert.True(t, deal.Price.IsZero())
		assert.True(t, deal.Tax.IsZero())
	})

	t.Run("rejects price plus tax overflow", func(t *testing.T) {
		m := newTestMarket(t)
		_, err := m.engine.CreateDirectDeal(ctx, seller, m.ledgerAddress, 1, uint128.Max, uint128.From64(1))
		assert.ErrorIs(t, err, errs.InvalidAmount)
	})

	t.Run("rejects relisting while the deal is open", func(t *testing.T) {
		m := newTestMarket(t)
		m.listToken(t)
		_, err := m.engine.CreateDirectDeal(ctx, seller, m.ledgerAddress, 1, price, tax)
		assert.ErrorIs(t, err, errs.DealAlreadyOpen)
	})
}

func TestPayByEth(t *testing.T) {
	ctx := context.Background()
	total := price.Add(tax)

	t.Run("settles delivery against payment atomically", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))

		settlement, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		require.NoError(t, err)
		assert.Equal(t, dealId, settlement.DealId)
		assert.Equal(t, seller, settlement.Seller)
		assert.Equal(t, buyer, settlement.Buyer)
		assert.Equal(t, price, settlement.Price)
		assert.Equal(t, tax, settlement.Tax)
		assert.True(t, settlement.Refund.IsZero())

		owner, err := m.engine.GetAssetOwner(ctx, m.ledgerAddress, 1)
		require.NoError(t, err)
		assert.Equal(t, buyer, owner)

		deal, err := m.dealsRepo.GetDealById(ctx, dealId)
		require.NoError(t, err)
		assert.Equal(t, deals.DealStateClosed, deal.State)
		assert.Equal(t, buyer, deal.Buyer)
		require.NotNil(t, deal.ClosedAt)

		assert.Equal(t, uint128.From64(999_000), m.balance(t, buyer))
		assert.Equal(t, price, m.balance(t, seller))
		assert.Equal(t, tax, m.balance(t, taxSink))
	})

	t.Run("overpayment debits only price plus tax", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))

		settlement, err := m.engine.PayByEth(ctx, buyer, dealId, uint128.From64(1_500_000))
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(499_000), settlement.Refund)
		assert.Equal(t, uint128.From64(999_000), m.balance(t, buyer))
	})

	t.Run("unknown deal", func(t *testing.T) {
		m := newTestMarket(t)
		_, err := m.engine.PayByEth(ctx, buyer, deals.DealId{}, total)
		assert.ErrorIs(t, err, errs.NoSuchDeal)
	})

	t.Run("amount below price plus tax", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))

		_, err := m.engine.PayByEth(ctx, buyer, dealId, uint128.From64(500_000))
		assert.ErrorIs(t, err, errs.InsufficientPayment)
		assertNoSideEffects(t, m, dealId)
	})

	t.Run("balance does not back the tendered amount", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(500_000))

		_, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		assert.ErrorIs(t, err, errs.InsufficientPayment)
		assert.Equal(t, uint128.From64(500_000), m.balance(t, buyer))
		assertNoSideEffects(t, m, dealId)
	})

	t.Run("zero price deal settles without moving funds", func(t *testing.T) {
		m := newTestMarket(t)
		dealId, err := m.engine.CreateDirectDeal(ctx, seller, m.ledgerAddress, 1, uint128.Zero, uint128.Zero)
		require.NoError(t, err)

		settlement, err := m.engine.PayByEth(ctx, buyer, dealId, uint128.Zero)
		require.NoError(t, err)
		assert.True(t, settlement.Refund.IsZero())

		owner, err := m.engine.GetAssetOwner(ctx, m.ledgerAddress, 1)
		require.NoError(t, err)
		assert.Equal(t, buyer, owner)
		assert.True(t, m.balance(t, seller).IsZero())
		assert.True(t, m.balance(t, taxSink).IsZero())
	})

	t.Run("settlement fails before delivery when paying the seller would overflow", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))
		m.fund(t, seller, uint128.Max.Sub(uint128.From64(10)))

		_, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		assert.ErrorIs(t, err, errs.SettlementFailed)

		// the token never moves and the buyer keeps every wei
		owner, err := m.engine.GetAssetOwner(ctx, m.ledgerAddress, 1)
		require.NoError(t, err)
		assert.Equal(t, seller, owner)
		assert.Equal(t, uint128.From64(2_000_000), m.balance(t, buyer))
		assert.Equal(t, uint128.Max.Sub(uint128.From64(10)), m.balance(t, seller))
		assert.True(t, m.balance(t, taxSink).IsZero())

		deal, err := m.dealsRepo.GetDealById(ctx, dealId)
		require.NoError(t, err)
		assert.Equal(t, deals.DealStateOpen, deal.State)
	})

	t.Run("settlement fails before delivery when paying the tax sink would overflow", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))
		m.fund(t, taxSink, uint128.Max.Sub(uint128.From64(10)))

		_, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		assert.ErrorIs(t, err, errs.SettlementFailed)

		owner, err := m.engine.GetAssetOwner(ctx, m.ledgerAddress, 1)
		require.NoError(t, err)
		assert.Equal(t, seller, owner)
		assert.Equal(t, uint128.From64(2_000_000), m.balance(t, buyer))
		assert.True(t, m.balance(t, seller).IsZero())
	})

	t.Run("settlement fails when ownership moved after listing", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))

		require.NoError(t, m.assets.TransferFrom(ctx, seller, m.classId, seller, 1, buyer2))

		_, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		assert.ErrorIs(t, err, errs.SettlementFailed)
		assert.Equal(t, uint128.From64(2_000_000), m.balance(t, buyer))

		// the deal stays open; it can only ever settle if ownership and
		// approval come back
		deal, err := m.dealsRepo.GetDealById(ctx, dealId)
		require.NoError(t, err)
		assert.Equal(t, deals.DealStateOpen, deal.State)
	})

	t.Run("settlement fails when approval was revoked after listing", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))

		require.NoError(t, m.assets.Approve(ctx, seller, m.classId, common.ZeroAddress, 1))

		_, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		assert.ErrorIs(t, err, errs.SettlementFailed)
		assert.Equal(t, uint128.From64(2_000_000), m.balance(t, buyer))
	})

	t.Run("closed deal cannot be paid again", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))
		m.fund(t, buyer2, uint128.From64(2_000_000))

		_, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		require.NoError(t, err)
		_, err = m.engine.PayByEth(ctx, buyer2, dealId, total)
		assert.ErrorIs(t, err, errs.DealNotOpen)
		assert.Equal(t, uint128.From64(2_000_000), m.balance(t, buyer2))
	})

	t.Run("settled slot can be relisted with the same terms", func(t *testing.T) {
		m := newTestMarket(t)
		dealId := m.listToken(t)
		m.fund(t, buyer, uint128.From64(2_000_000))
		_, err := m.engine.PayByEth(ctx, buyer, dealId, total)
		require.NoError(t, err)

		require.NoError(t, m.assets.Approve(ctx, buyer, m.classId, deals.EngineAddress, 1))
		relisted, err := m.engine.CreateDirectDeal(ctx, buyer, m.ledgerAddress, 1, price, tax)
		require.NoError(t, err)
		assert.Equal(t, dealId, relisted)

		deal, err := m.dealsRepo.GetDealById(ctx, dealId)
		require.NoError(t, err)
		assert.Equal(t, deals.DealStateOpen, deal.State)
		assert.Equal(t, buyer, deal.Seller)
		assert.True(t, deal.Buyer.IsZero())
		assert.Nil(t, deal.ClosedAt)
	})
}

// assertNoSideEffects checks that a rejected payment left the deal open, the
// token with the seller and the seller and tax sink unpaid.
func assertNoSideEffects(t *testing.T, m *testMarket, dealId deals.DealId) {
	t.Helper()
	ctx := context.Background()

	deal, err := m.dealsRepo.GetDealById(ctx, dealId)
	require.NoError(t, err)
	assert.Equal(t, deals.DealStateOpen, deal.State)

	owner, err := m.engine.GetAssetOwner(ctx, m.ledgerAddress, 1)
	require.NoError(t, err)
	assert.Equal(t, seller, owner)

	assert.True(t, m.balance(t, seller).IsZero())
	assert.True(t, m.balance(t, taxSink).IsZero())
}

func TestPayByEthConcurrent(t *testing.T) {
	ctx := context.Background()
	total := price.Add(tax)

	m := newTestMarket(t)
	dealId := m.listToken(t)
	m.fund(t, buyer, uint128.From64(2_000_000))
	m.fund(t, buyer2, uint128.From64(2_000_000))

	// two buyers race for the same deal; exactly one settles, the loser
	// keeps every wei
	buyers := []common.Address{buyer, buyer2}
	payErrs := make([]error, len(buyers))
	var g errgroup.Group
	for i, b := range buyers {
		i, b := i, b
		g.Go(func() error {
			_, err := m.engine.PayByEth(ctx, b, dealId, total)
			payErrs[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var winner, loser int
	switch {
	case payErrs[0] == nil:
		winner, loser = 0, 1
	case payErrs[1] == nil:
		winner, loser = 1, 0
	default:
		t.Fatalf("no payment settled: %v / %v", payErrs[0], payErrs[1])
	}
	assert.ErrorIs(t, payErrs[loser], errs.DealNotOpen)

	owner, err := m.engine.GetAssetOwner(ctx, m.ledgerAddress, 1)
	require.NoError(t, err)
	assert.Equal(t, buyers[winner], owner)
	assert.Equal(t, uint128.From64(999_000), m.balance(t, buyers[winner]))
	assert.Equal(t, uint128.From64(2_000_000), m.balance(t, buyers[loser]))
	assert.Equal(t, price, m.balance(t, seller))
	assert.Equal(t, tax, m.balance(t, taxSink))
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket(t)

	t.Run("credits and returns the new balance", func(t *testing.T) {
		balance, err := m.engine.Deposit(ctx, buyer, uint128.From64(100))
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(100), balance)

		balance, err = m.engine.Deposit(ctx, buyer, uint128.From64(50))
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(150), balance)
	})

	t.Run("rejects zero address and zero amount", func(t *testing.T) {
		_, err := m.engine.Deposit(ctx, common.ZeroAddress, uint128.From64(1))
		assert.ErrorIs(t, err, errs.InvalidArgument)
		_, err = m.engine.Deposit(ctx, buyer, uint128.Zero)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

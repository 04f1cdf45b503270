package memory

import (
	"context"
	"testing"
	"time"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountAddress(last byte) common.Address {
	var addr common.Address
	addr[common.AddressSize-1] = last
	return addr
}

func TestFundAccounts(t *testing.T) {
	ctx := context.Background()
	alice := accountAddress(0x01)
	bob := accountAddress(0x02)

	t.Run("zero balance by default", func(t *testing.T) {
		repo := NewRepository()
		balance, err := repo.BalanceOf(ctx, alice)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("transfer moves exactly the amount", func(t *testing.T) {
		repo := NewRepository()
		require.NoError(t, repo.Deposit(ctx, alice, uint128.From64(100)))
		require.NoError(t, repo.Transfer(ctx, alice, bob, uint128.From64(30)))

		balance, err := repo.BalanceOf(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(70), balance)
		balance, err = repo.BalanceOf(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(30), balance)
	})

	t.Run("transfer rejects a short source balance", func(t *testing.T) {
		repo := NewRepository()
		require.NoError(t, repo.Deposit(ctx, alice, uint128.From64(10)))
		err := repo.Transfer(ctx, alice, bob, uint128.From64(11))
		assert.ErrorIs(t, err, errs.InsufficientPayment)
	})

	t.Run("self transfer does not change the balance", func(t *testing.T) {
		repo := NewRepository()
		require.NoError(t, repo.Deposit(ctx, alice, uint128.From64(100)))
		require.NoError(t, repo.Transfer(ctx, alice, alice, uint128.From64(40)))

		balance, err := repo.BalanceOf(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(100), balance)
	})

	t.Run("deposit rejects overflow", func(t *testing.T) {
		repo := NewRepository()
		require.NoError(t, repo.Deposit(ctx, alice, uint128.Max))
		err := repo.Deposit(ctx, alice, uint128.From64(1))
		assert.ErrorIs(t, err, errs.InvalidAmount)
	})
}

func TestDealTransactions(t *testing.T) {
	ctx := context.Background()
	alice := accountAddress(0x01)

	newDeal := func(tokenId uint64, createdAt time.Time) *entity.Deal {
		return &entity.Deal{
			Id:        deals.NewDealId(accountAddress(0x10), tokenId, uint128.From64(100)),
			TokenId:   tokenId,
			Seller:    alice,
			Price:     uint128.From64(100),
			State:     deals.DealStateOpen,
			CreatedAt: createdAt,
		}
	}

	t.Run("uncommitted writes stay invisible", func(t *testing.T) {
		repo := NewRepository()
		tx, err := repo.BeginDealsTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.CreateDeal(ctx, newDeal(1, time.Now())))
		require.NoError(t, tx.Deposit(ctx, alice, uint128.From64(100)))

		_, err = repo.GetDealById(ctx, newDeal(1, time.Now()).Id)
		assert.ErrorIs(t, err, errs.NotFound)
		balance, err := repo.BalanceOf(ctx, alice)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())

		require.NoError(t, tx.Commit(ctx))
		_, err = repo.GetDealById(ctx, newDeal(1, time.Now()).Id)
		assert.NoError(t, err)
	})

	t.Run("rollback discards the working copy", func(t *testing.T) {
		repo := NewRepository()
		tx, err := repo.BeginDealsTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Deposit(ctx, alice, uint128.From64(100)))
		require.NoError(t, tx.Rollback(ctx))

		balance, err := repo.BalanceOf(ctx, alice)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("update of a missing deal", func(t *testing.T) {
		repo := NewRepository()
		err := repo.UpdateDeal(ctx, newDeal(1, time.Now()))
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("lists newest first with limit and offset", func(t *testing.T) {
		repo := NewRepository()
		base := time.Now().UTC()
		for i := uint64(1); i <= 3; i++ {
			require.NoError(t, repo.CreateDeal(ctx, newDeal(i, base.Add(time.Duration(i)*time.Minute))))
		}

		list, err := repo.GetDeals(ctx, -1, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, uint64(3), list[0].TokenId)
		assert.Equal(t, uint64(1), list[2].TokenId)

		list, err = repo.GetDeals(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, uint64(2), list[0].TokenId)

		list, err = repo.GetDeals(ctx, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

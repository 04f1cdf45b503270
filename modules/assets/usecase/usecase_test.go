package usecase

import (
	"context"
	"testing"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/assetdeal/registry-network/modules/assets/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsecase(t *testing.T) (*Usecase, assets.ClassId, common.Address) {
	t.Helper()
	ctx := context.Background()

	var owner, spender common.Address
	owner[common.AddressSize-1] = 0x01
	spender[common.AddressSize-1] = 0x02

	repo := memory.NewRepository()
	classId := assets.NewClassId("Car", "CAR", "https://example.com/car.json")
	require.NoError(t, repo.CreateClass(ctx, &entity.AssetClass{
		Id:            classId,
		Name:          "Car",
		Symbol:        "CAR",
		SupplyCap:     3,
		MetadataURI:   "https://example.com/car.json",
		ClassOwner:    owner,
		LedgerAddress: assets.LedgerAddress(classId),
		MintedCount:   2,
	}))
	require.NoError(t, repo.CreateToken(ctx, &entity.Token{
		ClassId: classId,
		TokenId: 1,
		Owner:   owner,
	}))
	require.NoError(t, repo.CreateToken(ctx, &entity.Token{
		ClassId:         classId,
		TokenId:         2,
		Owner:           owner,
		ApprovedSpender: spender,
		OwnerIndex:      1,
	}))

	return New(repo), classId, owner
}

func TestTokenQueries(t *testing.T) {
	ctx := context.Background()
	u, classId, owner := seedUsecase(t)

	t.Run("owner and approval", func(t *testing.T) {
		got, err := u.OwnerOf(ctx, classId, 1)
		require.NoError(t, err)
		assert.Equal(t, owner, got)

		approved, err := u.GetApproved(ctx, classId, 1)
		require.NoError(t, err)
		assert.True(t, approved.IsZero())

		approved, err = u.GetApproved(ctx, classId, 2)
		require.NoError(t, err)
		assert.False(t, approved.IsZero())
	})

	t.Run("unminted token", func(t *testing.T) {
		_, err := u.OwnerOf(ctx, classId, 42)
		assert.ErrorIs(t, err, errs.NoSuchToken)
		_, err = u.GetToken(ctx, classId, 42)
		assert.ErrorIs(t, err, errs.NoSuchToken)
	})

	t.Run("enumeration", func(t *testing.T) {
		balance, err := u.BalanceOf(ctx, classId, owner)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), balance)

		tokenId, err := u.TokenOfOwnerByIndex(ctx, classId, owner, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), tokenId)

		_, err = u.TokenOfOwnerByIndex(ctx, classId, owner, 2)
		assert.ErrorIs(t, err, errs.IndexOutOfRange)

		tokens, err := u.GetTokensByOwner(ctx, classId, owner)
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, uint64(1), tokens[0].TokenId)
		assert.Equal(t, uint64(2), tokens[1].TokenId)
	})
}

func TestClassQueries(t *testing.T) {
	ctx := context.Background()
	u, classId, _ := seedUsecase(t)

	t.Run("class info and ledger lookup", func(t *testing.T) {
		class, err := u.GetClass(ctx, classId)
		require.NoError(t, err)
		assert.Equal(t, "CAR", class.Symbol)

		ledgerAddress, err := u.LookupLedger(ctx, classId)
		require.NoError(t, err)
		assert.Equal(t, assets.LedgerAddress(classId), ledgerAddress)
	})

	t.Run("unknown class", func(t *testing.T) {
		unknown := assets.NewClassId("Ghost", "GST", "")
		_, err := u.GetClass(ctx, unknown)
		assert.ErrorIs(t, err, errs.NotFound)
		_, err = u.LookupLedger(ctx, unknown)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("list", func(t *testing.T) {
		classes, err := u.GetClasses(ctx, -1, 0)
		require.NoError(t, err)
		assert.Len(t, classes, 1)
	})
}

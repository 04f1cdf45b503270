package assets

import (
	"context"
	"testing"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/internal/statelock"
	assetsvalues "github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = testAddress(0x01)
	alice  = testAddress(0xaa)
	bob    = testAddress(0xbb)
	carol  = testAddress(0xcc)
	nobody = testAddress(0xff)
)

func testAddress(last byte) common.Address {
	var addr common.Address
	addr[common.AddressSize-1] = last
	return addr
}

func newTestProcessor(t *testing.T) (*Processor, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return NewProcessor(repo, statelock.New(), admin), repo
}

func registerTestClass(t *testing.T, p *Processor, supplyCap uint64) assetsvalues.ClassId {
	t.Helper()
	classId, err := p.RegisterClass(context.Background(), admin, "Car", "CAR", supplyCap, "https://example.com/car.json", alice)
	require.NoError(t, err)
	return classId
}

func TestRegisterClass(t *testing.T) {
	ctx := context.Background()

	t.Run("derives content id and ledger address", func(t *testing.T) {
		p, repo := newTestProcessor(t)
		classId := registerTestClass(t, p, 3)
		assert.Equal(t, assetsvalues.NewClassId("Car", "CAR", "https://example.com/car.json"), classId)

		class, err := repo.GetClassById(ctx, classId)
		require.NoError(t, err)
		assert.Equal(t, alice, class.ClassOwner)
		assert.Equal(t, uint64(3), class.SupplyCap)
		assert.Equal(t, uint64(0), class.MintedCount)
		assert.Equal(t, assetsvalues.LedgerAddress(classId), class.LedgerAddress)

		byLedger, err := repo.GetClassByLedgerAddress(ctx, class.LedgerAddress)
		require.NoError(t, err)
		assert.Equal(t, classId, byLedger.Id)
	})

	t.Run("rejects non-administrator", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		_, err := p.RegisterClass(ctx, alice, "Car", "CAR", 3, "uri", alice)
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		registerTestClass(t, p, 3)

		// same name/symbol/uri with different cap and owner still collides
		_, err := p.RegisterClass(ctx, admin, "Car", "CAR", 100, "https://example.com/car.json", bob)
		assert.ErrorIs(t, err, errs.DuplicateClass)
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		_, err := p.RegisterClass(ctx, admin, "", "CAR", 3, "uri", alice)
		assert.ErrorIs(t, err, errs.InvalidArgument)
		_, err = p.RegisterClass(ctx, admin, "Car", "CAR", 0, "uri", alice)
		assert.ErrorIs(t, err, errs.InvalidArgument)
		_, err = p.RegisterClass(ctx, admin, "Car", "CAR", 3, "uri", common.ZeroAddress)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

func TestMint(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential token ids from 1", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		classId := registerTestClass(t, p, 3)

		for want := uint64(1); want <= 3; want++ {
			tokenId, err := p.Mint(ctx, alice, classId, bob, "")
			require.NoError(t, err)
			assert.Equal(t, want, tokenId)
		}
	})

	t.Run("rejects non-class-owner", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		classId := registerTestClass(t, p, 3)
		_, err := p.Mint(ctx, admin, classId, bob, "")
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("enforces supply cap without side effects", func(t *testing.T) {
		p, repo := newTestProcessor(t)
		classId := registerTestClass(t, p, 2)

		_, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)
		_, err = p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)

		_, err = p.Mint(ctx, alice, classId, bob, "")
		assert.ErrorIs(t, err, errs.SupplyExceeded)

		class, err := repo.GetClassById(ctx, classId)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), class.MintedCount)
		balance, err := repo.CountTokensByOwner(ctx, classId, bob)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), balance)
	})

	t.Run("unknown class", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		_, err := p.Mint(ctx, alice, assetsvalues.NewClassId("Ghost", "GST", ""), bob, "")
		assert.ErrorIs(t, err, errs.NotFound)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	p, repo := newTestProcessor(t)
	classId := registerTestClass(t, p, 3)
	_, err := p.Mint(ctx, alice, classId, bob, "")
	require.NoError(t, err)

	t.Run("only owner may approve", func(t *testing.T) {
		err := p.Approve(ctx, carol, classId, carol, 1)
		assert.ErrorIs(t, err, errs.NotOwner)
	})

	t.Run("sets and overwrites single slot", func(t *testing.T) {
		require.NoError(t, p.Approve(ctx, bob, classId, carol, 1))
		token, err := repo.GetToken(ctx, classId, 1)
		require.NoError(t, err)
		assert.Equal(t, carol, token.ApprovedSpender)

		require.NoError(t, p.Approve(ctx, bob, classId, nobody, 1))
		token, err = repo.GetToken(ctx, classId, 1)
		require.NoError(t, err)
		assert.Equal(t, nobody, token.ApprovedSpender)
	})

	t.Run("zero address clears the slot", func(t *testing.T) {
		require.NoError(t, p.Approve(ctx, bob, classId, common.ZeroAddress, 1))
		token, err := repo.GetToken(ctx, classId, 1)
		require.NoError(t, err)
		assert.True(t, token.ApprovedSpender.IsZero())
	})

	t.Run("unknown token", func(t *testing.T) {
		err := p.Approve(ctx, bob, classId, carol, 42)
		assert.ErrorIs(t, err, errs.NoSuchToken)
	})
}

func TestTransferFrom(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Processor, *memory.Repository, assetsvalues.ClassId) {
		p, repo := newTestProcessor(t)
		classId := registerTestClass(t, p, 10)
		_, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)
		return p, repo, classId
	}

	t.Run("owner transfers and approval clears", func(t *testing.T) {
		p, repo, classId := setup(t)
		require.NoError(t, p.Approve(ctx, bob, classId, carol, 1))

		require.NoError(t, p.TransferFrom(ctx, bob, classId, bob, 1, carol))
		token, err := repo.GetToken(ctx, classId, 1)
		require.NoError(t, err)
		assert.Equal(t, carol, token.Owner)
		assert.True(t, token.ApprovedSpender.IsZero())
	})

	t.Run("approved spender transfers to a third party", func(t *testing.T) {
		p, repo, classId := setup(t)
		require.NoError(t, p.Approve(ctx, bob, classId, carol, 1))

		require.NoError(t, p.TransferFrom(ctx, carol, classId, bob, 1, nobody))
		token, err := repo.GetToken(ctx, classId, 1)
		require.NoError(t, err)
		assert.Equal(t, nobody, token.Owner)
	})

	t.Run("rejects unauthorized caller", func(t *testing.T) {
		p, _, classId := setup(t)
		err := p.TransferFrom(ctx, carol, classId, bob, 1, carol)
		assert.ErrorIs(t, err, errs.NotApprovedOrOwner)
	})

	t.Run("rejects wrong from", func(t *testing.T) {
		p, _, classId := setup(t)
		err := p.TransferFrom(ctx, bob, classId, carol, 1, nobody)
		assert.ErrorIs(t, err, errs.NotOwner)
	})

	t.Run("self transfer only clears approval", func(t *testing.T) {
		p, repo, classId := setup(t)
		require.NoError(t, p.Approve(ctx, bob, classId, carol, 1))

		require.NoError(t, p.TransferFrom(ctx, bob, classId, bob, 1, bob))
		token, err := repo.GetToken(ctx, classId, 1)
		require.NoError(t, err)
		assert.Equal(t, bob, token.Owner)
		assert.True(t, token.ApprovedSpender.IsZero())
		assert.Equal(t, uint64(0), token.OwnerIndex)
	})

	t.Run("rejects zero recipient", func(t *testing.T) {
		p, _, classId := setup(t)
		err := p.TransferFrom(ctx, bob, classId, bob, 1, common.ZeroAddress)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

func TestBurn(t *testing.T) {
	ctx := context.Background()

	t.Run("owner burns, token disappears, cap still counts it", func(t *testing.T) {
		p, repo := newTestProcessor(t)
		classId := registerTestClass(t, p, 2)
		_, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)

		require.NoError(t, p.Burn(ctx, bob, classId, 1))
		_, err = repo.GetToken(ctx, classId, 1)
		assert.ErrorIs(t, err, errs.NotFound)

		// next mint continues the sequence, the slot is never reused
		tokenId, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)
		assert.Equal(t, uint64(2), tokenId)

		// lifetime mints hit the cap even though only one token is live
		_, err = p.Mint(ctx, alice, classId, bob, "")
		assert.ErrorIs(t, err, errs.SupplyExceeded)
	})

	t.Run("approved spender may burn", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		classId := registerTestClass(t, p, 3)
		_, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)
		require.NoError(t, p.Approve(ctx, bob, classId, carol, 1))
		assert.NoError(t, p.Burn(ctx, carol, classId, 1))
	})

	t.Run("rejects unauthorized caller", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		classId := registerTestClass(t, p, 3)
		_, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)
		err = p.Burn(ctx, carol, classId, 1)
		assert.ErrorIs(t, err, errs.NotApprovedOrOwner)
	})

	t.Run("burning a burned token", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		classId := registerTestClass(t, p, 3)
		_, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)
		require.NoError(t, p.Burn(ctx, bob, classId, 1))
		err = p.Burn(ctx, bob, classId, 1)
		assert.ErrorIs(t, err, errs.NoSuchToken)
	})
}

func TestOwnerEnumeration(t *testing.T) {
	ctx := context.Background()
	p, repo := newTestProcessor(t)
	classId := registerTestClass(t, p, 10)

	for i := 0; i < 3; i++ {
		_, err := p.Mint(ctx, alice, classId, bob, "")
		require.NoError(t, err)
	}

	// transferring out of the middle swaps the last token into the hole
	require.NoError(t, p.TransferFrom(ctx, bob, classId, bob, 2, carol))

	balance, err := repo.CountTokensByOwner(ctx, classId, bob)
	require.NoError(t, err)
	require.Equal(t, uint64(2), balance)

	seen := make(map[uint64]bool)
	for index := uint64(0); index < balance; index++ {
		token, err := repo.GetTokenByOwnerIndex(ctx, classId, bob, index)
		require.NoError(t, err)
		assert.Equal(t, bob, token.Owner)
		assert.Equal(t, index, token.OwnerIndex)
		seen[token.TokenId] = true
	}
	assert.Equal(t, map[uint64]bool{1: true, 3: true}, seen)

	// index past the balance is out of range
	_, err = repo.GetTokenByOwnerIndex(ctx, classId, bob, balance)
	assert.ErrorIs(t, err, errs.NotFound)

	// recipient's enumeration picks up at its own balance
	token, err := repo.GetTokenByOwnerIndex(ctx, classId, carol, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), token.TokenId)
}

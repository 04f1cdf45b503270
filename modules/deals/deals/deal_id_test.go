package deals

import (
	"testing"

	"github.com/assetdeal/registry-network/common"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDealId(t *testing.T) {
	ledgerA, err := common.NewAddressFromString("0x00112233445566778899aabbccddeeff00112233")
	require.NoError(t, err)
	ledgerB, err := common.NewAddressFromString("0x00112233445566778899aabbccddeeff00112244")
	require.NoError(t, err)

	t.Run("deterministic over identical terms", func(t *testing.T) {
		id1 := NewDealId(ledgerA, 1, uint128.From64(1_000_000))
		id2 := NewDealId(ledgerA, 1, uint128.From64(1_000_000))
		assert.Equal(t, id1, id2)
	})

	t.Run("differs by ledger", func(t *testing.T) {
		id1 := NewDealId(ledgerA, 1, uint128.From64(1_000_000))
		id2 := NewDealId(ledgerB, 1, uint128.From64(1_000_000))
		assert.NotEqual(t, id1, id2)
	})

	t.Run("differs by token id", func(t *testing.T) {
		id1 := NewDealId(ledgerA, 1, uint128.From64(1_000_000))
		id2 := NewDealId(ledgerA, 2, uint128.From64(1_000_000))
		assert.NotEqual(t, id1, id2)
	})

	t.Run("differs by price", func(t *testing.T) {
		id1 := NewDealId(ledgerA, 1, uint128.From64(1_000_000))
		id2 := NewDealId(ledgerA, 1, uint128.From64(1_000_001))
		assert.NotEqual(t, id1, id2)
	})

	t.Run("high price bits contribute", func(t *testing.T) {
		id1 := NewDealId(ledgerA, 1, uint128.New(7, 0))
		id2 := NewDealId(ledgerA, 1, uint128.New(7, 1))
		assert.NotEqual(t, id1, id2)
	})
}

func TestDealIdStringRoundTrip(t *testing.T) {
	ledger, err := common.NewAddressFromString("0x00112233445566778899aabbccddeeff00112233")
	require.NoError(t, err)
	id := NewDealId(ledger, 42, uint128.From64(1_000_000))

	parsed, err := NewDealIdFromString(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestNewDealIdFromStringInvalid(t *testing.T) {
	_, err := NewDealIdFromString("not-hex")
	assert.ErrorIs(t, err, ErrInvalidDealId)

	_, err = NewDealIdFromString("beef")
	assert.ErrorIs(t, err, ErrInvalidDealId)
}

func TestDealState(t *testing.T) {
	state, err := NewDealState("open")
	require.NoError(t, err)
	assert.Equal(t, DealStateOpen, state)

	_, err = NewDealState("pending")
	assert.ErrorIs(t, err, ErrInvalidDealState)
}

package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassId(t *testing.T) {
	type testcase struct {
		name   string
		fields [3]string
		other  [3]string
		same   bool
	}
	testcases := []testcase{
		{
			name:   "identical fields derive identical ids",
			fields: [3]string{"My car assets", "CAR", "swarm://mycar.assets"},
			other:  [3]string{"My car assets", "CAR", "swarm://mycar.assets"},
			same:   true,
		},
		{
			name:   "different name",
			fields: [3]string{"My car assets", "CAR", "swarm://mycar.assets"},
			other:  [3]string{"My boat assets", "CAR", "swarm://mycar.assets"},
			same:   false,
		},
		{
			name:   "different symbol",
			fields: [3]string{"My car assets", "CAR", "swarm://mycar.assets"},
			other:  [3]string{"My car assets", "BOAT", "swarm://mycar.assets"},
			same:   false,
		},
		{
			name:   "different uri",
			fields: [3]string{"My car assets", "CAR", "swarm://mycar.assets"},
			other:  [3]string{"My car assets", "CAR", "swarm://other.assets"},
			same:   false,
		},
		{
			name:   "field boundaries are unambiguous",
			fields: [3]string{"ab", "c", "d"},
			other:  [3]string{"a", "bc", "d"},
			same:   false,
		},
		{
			name:   "order-sensitive",
			fields: [3]string{"a", "b", "c"},
			other:  [3]string{"c", "b", "a"},
			same:   false,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			id := NewClassId(tc.fields[0], tc.fields[1], tc.fields[2])
			other := NewClassId(tc.other[0], tc.other[1], tc.other[2])
			if tc.same {
				assert.Equal(t, id, other)
			} else {
				assert.NotEqual(t, id, other)
			}
		})
	}
}

func TestClassIdStringRoundTrip(t *testing.T) {
	id := NewClassId("My car assets", "CAR", "swarm://mycar.assets")
	parsed, err := NewClassIdFromString(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = NewClassIdFromString("not-hex")
	assert.Error(t, err)
	_, err = NewClassIdFromString("abcdef")
	assert.Error(t, err)
}

func TestLedgerAddress(t *testing.T) {
	id := NewClassId("My car assets", "CAR", "swarm://mycar.assets")
	addr := LedgerAddress(id)
	assert.False(t, addr.IsZero())
	// stable across calls
	assert.Equal(t, addr, LedgerAddress(id))
	// distinct classes get distinct ledgers
	other := NewClassId("My boat assets", "BOAT", "swarm://myboat.assets")
	assert.NotEqual(t, addr, LedgerAddress(other))
}

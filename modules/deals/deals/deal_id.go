package deals

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/assetdeal/registry-network/common"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

var ErrInvalidDealId = errors.New("invalid deal id")

// DealId identifies a deal by its terms. It is content-derived: hashing the
// ledger address, token id and price means a second listing of the same token
// at the same price lands on the same id, while any change of terms yields a
// fresh deal.
type DealId [32]byte

// NewDealId derives the deal id from the ledger address, the token id (8
// bytes big-endian) and the price (16 bytes big-endian).
func NewDealId(ledgerAddress common.Address, tokenId uint64, price uint128.Uint128) DealId {
	var buf [common.AddressSize + 8 + 16]byte
	copy(buf[:common.AddressSize], ledgerAddress.Bytes())
	binary.BigEndian.PutUint64(buf[common.AddressSize:common.AddressSize+8], tokenId)
	binary.BigEndian.PutUint64(buf[common.AddressSize+8:common.AddressSize+16], price.Hi)
	binary.BigEndian.PutUint64(buf[common.AddressSize+16:], price.Lo)
	return DealId(sha256.Sum256(buf[:]))
}

func NewDealIdFromString(s string) (DealId, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return DealId{}, errors.Wrapf(ErrInvalidDealId, "cannot decode hex string %s", s)
	}
	if len(decoded) != 32 {
		return DealId{}, errors.Wrapf(ErrInvalidDealId, "expected 32 bytes, got %d", len(decoded))
	}
	var id DealId
	copy(id[:], decoded)
	return id, nil
}

func (id DealId) String() string {
	return hex.EncodeToString(id[:])
}

func (id DealId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *DealId) UnmarshalText(text []byte) error {
	parsed, err := NewDealIdFromString(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*id = parsed
	return nil
}

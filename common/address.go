package common

import (
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 20

// Address identifies a principal (an account holder) or a deployed ledger
// instance. The canonical text form is "0x" followed by 40 lowercase hex digits.
type Address [AddressSize]byte

var ZeroAddress = Address{}

var (
	ErrInvalidAddressLength = errors.New("invalid address: must be 20 bytes")
	ErrInvalidAddressFormat = errors.New("invalid address: must be 0x-prefixed hex")
)

func NewAddress(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, errors.WithStack(ErrInvalidAddressLength)
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

func NewAddressFromString(str string) (Address, error) {
	s := strings.ToLower(strings.TrimSpace(str))
	if !strings.HasPrefix(s, "0x") {
		return Address{}, errors.WithStack(ErrInvalidAddressFormat)
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return Address{}, errors.WithStack(errors.Join(err, ErrInvalidAddressFormat))
	}
	return NewAddress(b)
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := NewAddressFromString(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*a = addr
	return nil
}

package assets

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/assetdeal/registry-network/common"
	"github.com/cockroachdb/errors"
)

// ClassId identifies an asset class. It is content-derived: the SHA-256
// digest of the canonical encoding of (name, symbol, metadataURI), so any
// caller can recompute a class's id without querying state. supplyCap and
// classOwner are deliberately excluded from the derivation: registering the
// same name/symbol/uri with a different supply or owner collides and must be
// rejected instead of silently creating a second class.
type ClassId [32]byte

// NewClassId derives the ClassId for the given class fields. The encoding is
// order-sensitive and unambiguous: each field is prefixed with its uvarint
// length before hashing.
func NewClassId(name string, symbol string, metadataURI string) ClassId {
	h := sha256.New()
	var lenBuf [binary.MaxVarintLen64]byte
	for _, field := range []string{name, symbol, metadataURI} {
		n := binary.PutUvarint(lenBuf[:], uint64(len(field)))
		h.Write(lenBuf[:n])
		h.Write([]byte(field))
	}
	var id ClassId
	copy(id[:], h.Sum(nil))
	return id
}

var ErrInvalidClassId = errors.New("invalid class id: must be 64 hex digits")

func NewClassIdFromString(str string) (ClassId, error) {
	s := strings.TrimPrefix(strings.ToLower(str), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return ClassId{}, errors.WithStack(errors.Join(err, ErrInvalidClassId))
	}
	if len(b) != 32 {
		return ClassId{}, errors.WithStack(ErrInvalidClassId)
	}
	var id ClassId
	copy(id[:], b)
	return id, nil
}

func (id ClassId) Bytes() []byte {
	return id[:]
}

func (id ClassId) String() string {
	return hex.EncodeToString(id[:])
}

func (id ClassId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ClassId) UnmarshalText(text []byte) error {
	parsed, err := NewClassIdFromString(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*id = parsed
	return nil
}

// LedgerAddress derives the handle of the class ledger instance deployed for
// the given class. Deterministic, so the address can be predicted before
// registration just like the ClassId itself.
func LedgerAddress(id ClassId) common.Address {
	h := sha256.New()
	h.Write([]byte("assetledger/"))
	h.Write(id[:])
	var addr common.Address
	copy(addr[:], h.Sum(nil)[:common.AddressSize])
	return addr
}

package deals

import (
	"crypto/sha256"

	"github.com/assetdeal/registry-network/common"
)

// EngineAddress is the principal the deal engine acts as. Sellers approve it
// as the spender of the listed token; settlement executes the transfer with
// this address as the caller. Derived deterministically so every node agrees
// on it without coordination.
var EngineAddress = deriveEngineAddress()

func deriveEngineAddress() common.Address {
	sum := sha256.Sum256([]byte("dealengine/v1"))
	var addr common.Address
	copy(addr[:], sum[:common.AddressSize])
	return addr
}

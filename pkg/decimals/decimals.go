package decimals

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

// Amounts move through the system as wei-scale integers; the API shows them
// with 18 decimals alongside the raw value.
const DefaultDecimals = 18

const DefaultDivPrecision = 36

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString converts a string to decimal.Decimal. Panics on anything
// that is not a valid number.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// FromUint128 scales a raw integer amount down by the given number of
// decimals.
func FromUint128(value uint128.Uint128, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(value.Big(), -decimals)
}

// Display renders a raw amount in its 18-decimal display form.
func Display(value uint128.Uint128) string {
	return FromUint128(value, DefaultDecimals).String()
}

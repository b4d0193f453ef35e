package utils

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is the kobo-per-naira factor used by the transfer providers.
const MinorUnitsPerMajor = 100

var ErrFractionalMinorUnit = errors.New("amount has more precision than the minor unit")

var minorFactor = decimal.NewFromInt(MinorUnitsPerMajor)

// ToMinorUnits converts a major-unit amount into integer minor units.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(minorFactor)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, ErrFractionalMinorUnit
	}
	return minor.IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a major-unit amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

package payments

import "math"

// MinorUnits converts a major-unit amount (e.g. euros) to the processor's
// integer minor units (cents), rounding half away from zero.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FeeMinorUnits is the platform's cut of a gross total, in minor units.
func FeeMinorUnits(total, feeRate float64) int64 {
	return int64(math.Round(total * 100 * feeRate))
}

// PayoutMinorUnits is the owner's share of a gross total, in minor units.
func PayoutMinorUnits(total, feeRate float64) int64 {
	return int64(math.Round(total * (1 - feeRate) * 100))
}
